package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/elearn-api/internal/domain/entity"
	"github.com/yourusername/elearn-api/internal/domain/repository"
	apperrors "github.com/yourusername/elearn-api/internal/pkg/errors"
	"github.com/yourusername/elearn-api/internal/service/attemptengine"
)

const leaderboardCacheKey = "leaderboard:top"

// AttemptStep — состояние попытки после Start или Answer.
// Question == nil означает, что попытка завершена и доступен результат.
type AttemptStep struct {
	Attempt  *entity.QuizAttempt
	Question *entity.Question
}

// AttemptResultItem — разбор одного вопроса в результате попытки
type AttemptResultItem struct {
	Seq       int
	Question  entity.Question
	UserLabel string // пустая строка, если ответа не было
	Answered  bool
	IsCorrect bool
}

// AttemptResult — итог завершенной попытки
type AttemptResult struct {
	Attempt *entity.QuizAttempt
	Score   int
	Items   []AttemptResultItem
}

// AttemptService реализует конечный автомат попытки: старт, строгое
// последовательное прохождение вопросов и подсчет результата.
// Все состояние живет в хранилище; сервис не держит ничего в памяти.
type AttemptService struct {
	attemptRepo  repository.AttemptRepository
	questionRepo repository.QuestionRepository
	cacheRepo    repository.CacheRepository
	selector     *attemptengine.Selector
	config       *attemptengine.Config
}

// NewAttemptService создает новый сервис попыток
func NewAttemptService(
	attemptRepo repository.AttemptRepository,
	questionRepo repository.QuestionRepository,
	cacheRepo repository.CacheRepository,
	selector *attemptengine.Selector,
	config *attemptengine.Config,
) *AttemptService {
	return &AttemptService{
		attemptRepo:  attemptRepo,
		questionRepo: questionRepo,
		cacheRepo:    cacheRepo,
		selector:     selector,
		config:       config,
	}
}

// StartAttempt выполняет выборку вопросов и создает попытку.
// Попытка и снимок порядка вопросов создаются в одной транзакции.
// Возвращает попытку с курсором на первом вопросе.
func (s *AttemptService) StartAttempt(userID uint, req attemptengine.SelectionRequest) (*AttemptStep, error) {
	selection, err := s.selector.Select(req)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	attempt := &entity.QuizAttempt{
		ID:             uuid.NewString(),
		UserID:         userID,
		Mode:           selection.Mode,
		UnitID:         selection.UnitID,
		CategoryIDs:    entity.UintArray(selection.CategoryIDs),
		RequestedCount: req.RequestedCount,
		ActualCount:    len(selection.QuestionIDs),
		CurrentSeq:     1,
		Status:         entity.AttemptStatusInProgress,
		ExpiresAt:      now.Add(s.config.AttemptTTL),
	}

	if err := s.attemptRepo.CreateWithQuestions(attempt, selection.QuestionIDs); err != nil {
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}

	question, err := s.loadQuestion(selection.QuestionIDs[0])
	if err != nil {
		return nil, err
	}

	log.Printf("[AttemptService] Попытка %s создана: user=%d mode=%s вопросов=%d",
		attempt.ID, userID, attempt.Mode, attempt.ActualCount)

	return &AttemptStep{Attempt: attempt, Question: question}, nil
}

// Answer записывает ответ на текущий вопрос попытки.
// Клиентский questionID используется только для сверки с вопросом на текущей
// позиции (защита от пропуска и подмены порядка); авторитетен серверный курсор.
func (s *AttemptService) Answer(userID uint, attemptID string, questionID uint, label string) (*AttemptStep, error) {
	if !entity.IsAnswerLabel(label) {
		return nil, attemptengine.ErrInvalidAnswer
	}

	attempt, err := s.getOwnedActive(userID, attemptID)
	if err != nil {
		return nil, err
	}

	current, err := s.attemptRepo.QuestionAt(attemptID, attempt.CurrentSeq)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Защитная ветка: снимок создается атомарно вместе с попыткой,
			// отсутствие строки на текущей позиции — аномалия
			return nil, attemptengine.ErrInvalidSequence
		}
		return nil, err
	}

	if current.QuestionID != questionID {
		return nil, attemptengine.ErrInvalidSequence
	}

	// Pre-check повторного ответа. Авторитетная защита — уникальный индекс
	// в SaveAnswerAndAdvance, этот запрос лишь дает быстрый отказ.
	if _, err := s.attemptRepo.FindAnswer(attemptID, questionID); err == nil {
		return nil, attemptengine.ErrAlreadyAnswered
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	answer := &entity.QuizAttemptAnswer{
		AttemptID:  attemptID,
		QuestionID: questionID,
		Label:      label,
	}

	complete := attempt.OnLastQuestion()
	if err := s.attemptRepo.SaveAnswerAndAdvance(answer, complete); err != nil {
		if errors.Is(err, repository.ErrDuplicateAnswer) {
			// Конкурентный запрос успел первым; вторая вставка отклонена БД
			return nil, attemptengine.ErrAlreadyAnswered
		}
		return nil, fmt.Errorf("failed to record answer: %w", err)
	}

	if complete {
		attempt.Status = entity.AttemptStatusCompleted
		log.Printf("[AttemptService] Попытка %s завершена: user=%d вопросов=%d", attemptID, userID, attempt.ActualCount)
		return &AttemptStep{Attempt: attempt}, nil
	}

	attempt.CurrentSeq++
	next, err := s.attemptRepo.QuestionAt(attemptID, attempt.CurrentSeq)
	if err != nil {
		return nil, err
	}
	question, err := s.loadQuestion(next.QuestionID)
	if err != nil {
		return nil, err
	}

	return &AttemptStep{Attempt: attempt, Question: question}, nil
}

// GetResult возвращает итог завершенной попытки с поэлементным разбором
func (s *AttemptService) GetResult(userID uint, attemptID string) (*AttemptResult, error) {
	attempt, err := s.attemptRepo.GetOwned(attemptID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, attemptengine.ErrAttemptNotFound
		}
		return nil, err
	}

	if err := s.guardExpiry(attempt); err != nil {
		return nil, err
	}
	if !attempt.IsCompleted() {
		return nil, attemptengine.ErrAttemptNotCompleted
	}

	return s.buildResult(attempt)
}

// GetResultByID возвращает итог попытки без проверки владельца.
// Используется административным экспортом.
func (s *AttemptService) GetResultByID(attemptID string) (*AttemptResult, error) {
	attempt, err := s.attemptRepo.GetByID(attemptID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, attemptengine.ErrAttemptNotFound
		}
		return nil, err
	}
	if !attempt.IsCompleted() {
		return nil, attemptengine.ErrAttemptNotCompleted
	}
	return s.buildResult(attempt)
}

// ListAttempts возвращает историю попыток пользователя с пагинацией
func (s *AttemptService) ListAttempts(userID uint, page, pageSize int) ([]entity.QuizAttempt, int64, error) {
	offset := (page - 1) * pageSize
	return s.attemptRepo.ListByUser(userID, pageSize, offset)
}

// Leaderboard возвращает таблицу лидеров, кешируя ее в Redis на короткий срок
func (s *AttemptService) Leaderboard(limit int, cacheTTL time.Duration) ([]repository.LeaderboardEntry, error) {
	if s.cacheRepo != nil {
		var cached []repository.LeaderboardEntry
		if err := s.cacheRepo.GetJSON(leaderboardCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	entries, err := s.attemptRepo.Leaderboard(limit)
	if err != nil {
		return nil, err
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetJSON(leaderboardCacheKey, entries, cacheTTL); err != nil {
			log.Printf("[AttemptService] Не удалось закешировать лидерборд: %v", err)
		}
	}
	return entries, nil
}

// getOwnedActive загружает попытку владельца и проверяет, что по ней можно отвечать
func (s *AttemptService) getOwnedActive(userID uint, attemptID string) (*entity.QuizAttempt, error) {
	attempt, err := s.attemptRepo.GetOwned(attemptID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, attemptengine.ErrAttemptNotFound
		}
		return nil, err
	}

	// Сначала истечение срока, затем конфликт статуса
	if err := s.guardExpiry(attempt); err != nil {
		return nil, err
	}
	if attempt.IsCompleted() {
		return nil, attemptengine.ErrAttemptNotActive
	}
	return attempt, nil
}

// guardExpiry лениво фиксирует истечение срока попытки.
// EXPIRED достижим только из IN_PROGRESS: завершенная попытка не истекает,
// ее результат остается доступным после expires_at.
func (s *AttemptService) guardExpiry(attempt *entity.QuizAttempt) error {
	if attempt.IsExpired() {
		return attemptengine.ErrAttemptExpired
	}
	if attempt.IsInProgress() && attempt.DeadlinePassed(time.Now()) {
		if err := s.attemptRepo.MarkExpired(attempt.ID); err != nil {
			return fmt.Errorf("failed to mark attempt expired: %w", err)
		}
		attempt.Status = entity.AttemptStatusExpired
		log.Printf("[AttemptService] Попытка %s истекла (expires_at=%v)", attempt.ID, attempt.ExpiresAt)
		return attemptengine.ErrAttemptExpired
	}
	return nil
}

// buildResult собирает поэлементный разбор в порядке показа.
// Отсутствие ответа — не ошибка: вопрос засчитывается как неотвеченный.
func (s *AttemptService) buildResult(attempt *entity.QuizAttempt) (*AttemptResult, error) {
	sequence, err := s.attemptRepo.Questions(attempt.ID)
	if err != nil {
		return nil, err
	}
	answers, err := s.attemptRepo.Answers(attempt.ID)
	if err != nil {
		return nil, err
	}

	answerByQuestion := make(map[uint]entity.QuizAttemptAnswer, len(answers))
	for _, a := range answers {
		answerByQuestion[a.QuestionID] = a
	}

	questionIDs := make([]uint, 0, len(sequence))
	for _, sq := range sequence {
		questionIDs = append(questionIDs, sq.QuestionID)
	}
	questions, err := s.questionRepo.GetByIDs(questionIDs)
	if err != nil {
		return nil, err
	}
	questionByID := make(map[uint]entity.Question, len(questions))
	for _, q := range questions {
		questionByID[q.ID] = q
	}

	result := &AttemptResult{
		Attempt: attempt,
		Items:   make([]AttemptResultItem, 0, len(sequence)),
	}

	for _, sq := range sequence {
		question, ok := questionByID[sq.QuestionID]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", attemptengine.ErrQuestionNotFound, sq.QuestionID)
		}

		item := AttemptResultItem{
			Seq:      sq.Seq,
			Question: question,
		}
		if answer, ok := answerByQuestion[sq.QuestionID]; ok {
			item.Answered = true
			item.UserLabel = answer.Label
			// UNKNOWN и неправильная метка засчитываются как неверные
			item.IsCorrect = question.IsCorrectLabel(answer.Label)
		}
		if item.IsCorrect {
			result.Score++
		}
		result.Items = append(result.Items, item)
	}

	return result, nil
}

// loadQuestion возвращает вопрос каталога по ID снимка
func (s *AttemptService) loadQuestion(id uint) (*entity.Question, error) {
	question, err := s.questionRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", attemptengine.ErrQuestionNotFound, id)
		}
		return nil, err
	}
	return question, nil
}
