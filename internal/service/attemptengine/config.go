package attemptengine

import "time"

// Константы значений по умолчанию
const (
	DefaultAttemptTTL = 30 * time.Minute
)

// allowedCounts — допустимые значения requested_count
var allowedCounts = map[int]bool{10: true, 20: true, 30: true, 40: true, 50: true}

// IsAllowedCount проверяет, допустимо ли запрошенное количество вопросов
func IsAllowedCount(n int) bool {
	return allowedCounts[n]
}

// Config содержит настройки движка попыток
type Config struct {
	// AttemptTTL — срок жизни попытки с момента старта.
	// По его истечении попытка лениво переводится в expired при первом обращении.
	AttemptTTL time.Duration
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		AttemptTTL: DefaultAttemptTTL,
	}
}
