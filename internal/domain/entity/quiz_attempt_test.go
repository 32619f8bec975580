package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQuizAttempt_StatusHelpers(t *testing.T) {
	// Arrange
	inProgress := &QuizAttempt{Status: AttemptStatusInProgress}
	completed := &QuizAttempt{Status: AttemptStatusCompleted}
	expired := &QuizAttempt{Status: AttemptStatusExpired}

	// Act & Assert
	assert.True(t, inProgress.IsInProgress())
	assert.False(t, inProgress.IsCompleted())
	assert.False(t, inProgress.IsExpired())

	assert.True(t, completed.IsCompleted())
	assert.False(t, completed.IsInProgress())

	assert.True(t, expired.IsExpired())
	assert.False(t, expired.IsInProgress())
}

func TestQuizAttempt_DeadlinePassed(t *testing.T) {
	// Arrange
	now := time.Now()
	attempt := &QuizAttempt{ExpiresAt: now.Add(30 * time.Minute)}

	// Act & Assert: до срока
	assert.False(t, attempt.DeadlinePassed(now))
	assert.False(t, attempt.DeadlinePassed(now.Add(29*time.Minute)))

	// Assert: после срока
	assert.True(t, attempt.DeadlinePassed(now.Add(31*time.Minute)))
}

func TestQuizAttempt_OnLastQuestion(t *testing.T) {
	// Arrange
	attempt := &QuizAttempt{ActualCount: 10, CurrentSeq: 1}

	// Act & Assert: в начале и середине
	assert.False(t, attempt.OnLastQuestion())
	attempt.CurrentSeq = 9
	assert.False(t, attempt.OnLastQuestion())

	// Assert: на последнем вопросе
	attempt.CurrentSeq = 10
	assert.True(t, attempt.OnLastQuestion())
}

func TestQuizAttempt_OnLastQuestion_SingleQuestion(t *testing.T) {
	// Arrange: пул дал всего один вопрос
	attempt := &QuizAttempt{ActualCount: 1, CurrentSeq: 1}

	// Act & Assert
	assert.True(t, attempt.OnLastQuestion(), "Попытка из одного вопроса сразу на последнем")
}
