package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"
)

// Метки вариантов ответа. UNKNOWN — синтетический вариант "わからない",
// он не хранится в каталоге, но принимается как ответ учащегося.
const (
	ChoiceLabelA       = "A"
	ChoiceLabelB       = "B"
	ChoiceLabelC       = "C"
	ChoiceLabelD       = "D"
	ChoiceLabelUnknown = "UNKNOWN"
)

// ChoiceLabels — полный набор меток каталожных вариантов в порядке показа
var ChoiceLabels = []string{ChoiceLabelA, ChoiceLabelB, ChoiceLabelC, ChoiceLabelD}

// IsAnswerLabel проверяет, допустима ли метка как ответ учащегося
func IsAnswerLabel(label string) bool {
	if label == ChoiceLabelUnknown {
		return true
	}
	for _, l := range ChoiceLabels {
		if label == l {
			return true
		}
	}
	return false
}

// Choice представляет один вариант ответа на вопрос
type Choice struct {
	Label     string `json:"label"`
	Body      string `json:"body"`
	IsCorrect bool   `json:"is_correct"`
}

// ChoiceList - пользовательский тип для работы с JSONB
type ChoiceList []Choice

// Scan реализует интерфейс sql.Scanner для ChoiceList
// Используется GORM для чтения JSONB данных из базы
func (c *ChoiceList) Scan(value interface{}) error {
	if value == nil {
		*c = ChoiceList{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*c = ChoiceList{}
		return nil
	}

	return json.Unmarshal(bytes, c)
}

// Value реализует интерфейс driver.Valuer для ChoiceList
// Используется GORM для записи ChoiceList в JSONB в базе
func (c ChoiceList) Value() (driver.Value, error) {
	if len(c) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(c)
}

// Sorted возвращает копию списка, отсортированную по метке (A, B, C, D)
func (c ChoiceList) Sorted() ChoiceList {
	out := make(ChoiceList, len(c))
	copy(out, c)
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Question представляет вопрос в каталоге
type Question struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CategoryID  uint       `gorm:"not null;index" json:"category_id"`
	Body        string     `gorm:"size:1000;not null" json:"body"`
	Explanation string     `gorm:"size:2000;not null;default:''" json:"explanation"`
	Choices     ChoiceList `gorm:"type:jsonb;not null" json:"choices"`
	IsActive    bool       `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// Validate проверяет инвариант каталога: присутствуют все четыре метки A–D
// по одному разу, и ровно один вариант помечен правильным.
func (q *Question) Validate() error {
	if len(q.Choices) != len(ChoiceLabels) {
		return fmt.Errorf("question must have exactly %d choices, got %d", len(ChoiceLabels), len(q.Choices))
	}

	seen := make(map[string]bool, len(ChoiceLabels))
	correct := 0
	for _, ch := range q.Choices {
		if seen[ch.Label] {
			return fmt.Errorf("duplicate choice label %q", ch.Label)
		}
		seen[ch.Label] = true
		if ch.IsCorrect {
			correct++
		}
	}

	for _, label := range ChoiceLabels {
		if !seen[label] {
			return fmt.Errorf("missing choice label %q", label)
		}
	}

	if correct != 1 {
		return fmt.Errorf("exactly one choice must be correct, got %d", correct)
	}
	return nil
}

// CorrectLabel возвращает метку правильного варианта.
// Пустая строка возможна только для невалидного вопроса.
func (q *Question) CorrectLabel() string {
	for _, ch := range q.Choices {
		if ch.IsCorrect {
			return ch.Label
		}
	}
	return ""
}

// IsCorrectLabel проверяет, является ли метка правильным ответом.
// UNKNOWN и отсутствующий ответ всегда считаются неправильными.
func (q *Question) IsCorrectLabel(label string) bool {
	return label != "" && label != ChoiceLabelUnknown && label == q.CorrectLabel()
}
