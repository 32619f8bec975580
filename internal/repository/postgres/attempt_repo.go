package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/yourusername/elearn-api/internal/domain/entity"
	"github.com/yourusername/elearn-api/internal/domain/repository"
	apperrors "github.com/yourusername/elearn-api/internal/pkg/errors"
)

// AttemptRepo реализует repository.AttemptRepository
type AttemptRepo struct {
	db *gorm.DB
}

// NewAttemptRepo создает новый репозиторий попыток
func NewAttemptRepo(db *gorm.DB) *AttemptRepo {
	return &AttemptRepo{db: db}
}

// CreateWithQuestions атомарно создает попытку и все строки снимка порядка вопросов.
// Либо создается все, либо ничего — частично созданная попытка не наблюдаема.
func (r *AttemptRepo) CreateWithQuestions(attempt *entity.QuizAttempt, questionIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			return fmt.Errorf("failed to create attempt: %w", err)
		}

		rows := make([]entity.QuizAttemptQuestion, 0, len(questionIDs))
		for i, qid := range questionIDs {
			rows = append(rows, entity.QuizAttemptQuestion{
				AttemptID:  attempt.ID,
				Seq:        i + 1, // позиции 1-based
				QuestionID: qid,
			})
		}

		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to create attempt questions: %w", err)
		}
		return nil
	})
}

// GetOwned возвращает попытку по комбинированному предикату (id AND owner).
// Чужая и несуществующая попытки дают одинаковый ErrNotFound, чтобы не
// раскрывать факт существования через различие кодов ошибок.
func (r *AttemptRepo) GetOwned(attemptID string, userID uint) (*entity.QuizAttempt, error) {
	var attempt entity.QuizAttempt
	err := r.db.Where("id = ? AND user_id = ?", attemptID, userID).First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &attempt, nil
}

// GetByID возвращает попытку без проверки владельца
func (r *AttemptRepo) GetByID(attemptID string) (*entity.QuizAttempt, error) {
	var attempt entity.QuizAttempt
	err := r.db.Where("id = ?", attemptID).First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &attempt, nil
}

// QuestionAt возвращает строку снимка на позиции seq
func (r *AttemptRepo) QuestionAt(attemptID string, seq int) (*entity.QuizAttemptQuestion, error) {
	var aq entity.QuizAttemptQuestion
	err := r.db.Where("attempt_id = ? AND seq = ?", attemptID, seq).First(&aq).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &aq, nil
}

// Questions возвращает снимок порядка вопросов попытки, отсортированный по seq
func (r *AttemptRepo) Questions(attemptID string) ([]entity.QuizAttemptQuestion, error) {
	var rows []entity.QuizAttemptQuestion
	err := r.db.Where("attempt_id = ?", attemptID).Order("seq").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Answers возвращает все записанные ответы попытки
func (r *AttemptRepo) Answers(attemptID string) ([]entity.QuizAttemptAnswer, error) {
	var rows []entity.QuizAttemptAnswer
	err := r.db.Where("attempt_id = ?", attemptID).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindAnswer возвращает ответ на вопрос попытки, если он уже записан
func (r *AttemptRepo) FindAnswer(attemptID string, questionID uint) (*entity.QuizAttemptAnswer, error) {
	var answer entity.QuizAttemptAnswer
	err := r.db.Where("attempt_id = ? AND question_id = ?", attemptID, questionID).First(&answer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &answer, nil
}

// SaveAnswerAndAdvance атомарно вставляет ответ и обновляет попытку.
// Вставка и обновление курсора/статуса — одна транзакция: сбой или
// конкурентный запрос не могут увидеть "ответ записан, курсор не сдвинут".
//
// Два конкурентных Answer могут оба пройти pre-check в сервисе; вторая вставка
// упадет на уникальном индексе (23505) и будет возвращена как ErrDuplicateAnswer.
func (r *AttemptRepo) SaveAnswerAndAdvance(answer *entity.QuizAttemptAnswer, complete bool) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(answer).Error; err != nil {
			return err
		}

		update := tx.Model(&entity.QuizAttempt{}).
			Where("id = ? AND status = ?", answer.AttemptID, entity.AttemptStatusInProgress)

		var result *gorm.DB
		if complete {
			result = update.Update("status", entity.AttemptStatusCompleted)
		} else {
			result = update.Update("current_seq", gorm.Expr("current_seq + 1"))
		}
		if result.Error != nil {
			return result.Error
		}
		// Попытка могла сменить статус между чтением в сервисе и этой транзакцией
		if result.RowsAffected == 0 {
			return fmt.Errorf("attempt %s is not in progress: %w", answer.AttemptID, apperrors.ErrConflict)
		}
		return nil
	})

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: attempt %s question %d", repository.ErrDuplicateAnswer, answer.AttemptID, answer.QuestionID)
		}
		return err
	}
	return nil
}

// MarkExpired переводит попытку из in_progress в expired.
// Условие по статусу защищает терминальность: completed/expired не перетираются.
func (r *AttemptRepo) MarkExpired(attemptID string) error {
	return r.db.Model(&entity.QuizAttempt{}).
		Where("id = ? AND status = ?", attemptID, entity.AttemptStatusInProgress).
		Update("status", entity.AttemptStatusExpired).
		Error
}

// ListByUser возвращает попытки пользователя с пагинацией и total count
func (r *AttemptRepo) ListByUser(userID uint, limit, offset int) ([]entity.QuizAttempt, int64, error) {
	var attempts []entity.QuizAttempt
	var total int64

	query := r.db.Model(&entity.QuizAttempt{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Limit(limit).Offset(offset).Order("created_at DESC").Find(&attempts).Error
	if err != nil {
		return nil, 0, err
	}
	return attempts, total, nil
}

// Leaderboard возвращает топ пользователей по количеству завершенных попыток
// и правильных ответов в них
func (r *AttemptRepo) Leaderboard(limit int) ([]repository.LeaderboardEntry, error) {
	var entries []repository.LeaderboardEntry

	sql := `
		SELECT u.id AS user_id,
		       u.username,
		       COUNT(DISTINCT a.id) AS completed_attempts,
		       COUNT(ans.id) FILTER (
		           WHERE ans.label <> 'UNKNOWN'
		             AND EXISTS (
		                 SELECT 1 FROM questions q,
		                      jsonb_array_elements(q.choices) AS ch
		                 WHERE q.id = ans.question_id
		                   AND ch->>'label' = ans.label
		                   AND (ch->>'is_correct')::boolean
		             )
		       ) AS correct_answers
		FROM users u
		JOIN quiz_attempts a ON a.user_id = u.id AND a.status = 'completed'
		LEFT JOIN quiz_attempt_answers ans ON ans.attempt_id = a.id
		GROUP BY u.id, u.username
		ORDER BY completed_attempts DESC, correct_answers DESC
		LIMIT ?
	`

	err := r.db.Raw(sql, limit).Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}
