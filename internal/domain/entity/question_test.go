package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validChoices возвращает корректный набор вариантов с правильным ответом B
func validChoices() ChoiceList {
	return ChoiceList{
		{Label: ChoiceLabelA, Body: "Вариант A", IsCorrect: false},
		{Label: ChoiceLabelB, Body: "Вариант B", IsCorrect: true},
		{Label: ChoiceLabelC, Body: "Вариант C", IsCorrect: false},
		{Label: ChoiceLabelD, Body: "Вариант D", IsCorrect: false},
	}
}

func TestQuestion_Validate_Success(t *testing.T) {
	// Arrange
	question := &Question{
		CategoryID: 1,
		Body:       "Сколько будет 2+2?",
		Choices:    validChoices(),
	}

	// Act & Assert
	require.NoError(t, question.Validate())
}

func TestQuestion_Validate_WrongChoiceCount(t *testing.T) {
	// Arrange
	question := &Question{
		Choices: ChoiceList{
			{Label: ChoiceLabelA, Body: "A", IsCorrect: true},
			{Label: ChoiceLabelB, Body: "B"},
		},
	}

	// Act
	err := question.Validate()

	// Assert
	assert.Error(t, err, "Вопрос с двумя вариантами должен быть невалидным")
}

func TestQuestion_Validate_DuplicateLabel(t *testing.T) {
	// Arrange
	choices := validChoices()
	choices[2].Label = ChoiceLabelA // дубликат метки A, метка C отсутствует
	question := &Question{Choices: choices}

	// Act
	err := question.Validate()

	// Assert
	assert.Error(t, err, "Дублированная метка должна быть невалидной")
}

func TestQuestion_Validate_NoCorrectChoice(t *testing.T) {
	// Arrange
	choices := validChoices()
	choices[1].IsCorrect = false
	question := &Question{Choices: choices}

	// Act
	err := question.Validate()

	// Assert
	assert.Error(t, err, "Вопрос без правильного варианта должен быть невалидным")
}

func TestQuestion_Validate_MultipleCorrectChoices(t *testing.T) {
	// Arrange
	choices := validChoices()
	choices[0].IsCorrect = true // теперь правильных два: A и B
	question := &Question{Choices: choices}

	// Act
	err := question.Validate()

	// Assert
	assert.Error(t, err, "Вопрос с двумя правильными вариантами должен быть невалидным")
}

func TestQuestion_CorrectLabel(t *testing.T) {
	// Arrange
	question := &Question{Choices: validChoices()}

	// Act & Assert
	assert.Equal(t, ChoiceLabelB, question.CorrectLabel())
}

func TestQuestion_IsCorrectLabel(t *testing.T) {
	// Arrange
	question := &Question{Choices: validChoices()}

	// Act & Assert: правильная метка
	assert.True(t, question.IsCorrectLabel(ChoiceLabelB))

	// Assert: неправильные метки
	assert.False(t, question.IsCorrectLabel(ChoiceLabelA))
	assert.False(t, question.IsCorrectLabel(ChoiceLabelC))
	assert.False(t, question.IsCorrectLabel(ChoiceLabelD))

	// UNKNOWN и пустая метка всегда считаются неправильными
	assert.False(t, question.IsCorrectLabel(ChoiceLabelUnknown))
	assert.False(t, question.IsCorrectLabel(""))
}

func TestIsAnswerLabel(t *testing.T) {
	// Act & Assert: допустимые метки ответа
	assert.True(t, IsAnswerLabel(ChoiceLabelA))
	assert.True(t, IsAnswerLabel(ChoiceLabelB))
	assert.True(t, IsAnswerLabel(ChoiceLabelC))
	assert.True(t, IsAnswerLabel(ChoiceLabelD))
	assert.True(t, IsAnswerLabel(ChoiceLabelUnknown))

	// Assert: недопустимые
	assert.False(t, IsAnswerLabel(""))
	assert.False(t, IsAnswerLabel("E"))
	assert.False(t, IsAnswerLabel("a"))
}

func TestChoiceList_Sorted(t *testing.T) {
	// Arrange: варианты в произвольном порядке
	choices := ChoiceList{
		{Label: ChoiceLabelC, Body: "C"},
		{Label: ChoiceLabelA, Body: "A"},
		{Label: ChoiceLabelD, Body: "D"},
		{Label: ChoiceLabelB, Body: "B"},
	}

	// Act
	sorted := choices.Sorted()

	// Assert
	require.Len(t, sorted, 4)
	assert.Equal(t, ChoiceLabelA, sorted[0].Label)
	assert.Equal(t, ChoiceLabelB, sorted[1].Label)
	assert.Equal(t, ChoiceLabelC, sorted[2].Label)
	assert.Equal(t, ChoiceLabelD, sorted[3].Label)

	// Исходный порядок не изменился
	assert.Equal(t, ChoiceLabelC, choices[0].Label)
}
