package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Difficulty is the closed set of question difficulty levels.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty validates and normalizes a difficulty string.
func ParseDifficulty(raw string) (Difficulty, error) {
	switch Difficulty(strings.ToLower(strings.TrimSpace(raw))) {
	case DifficultyEasy:
		return DifficultyEasy, nil
	case DifficultyMedium:
		return DifficultyMedium, nil
	case DifficultyHard:
		return DifficultyHard, nil
	default:
		return "", fmt.Errorf("invalid difficulty: %q", raw)
	}
}

// Question represents a trivia question with one correct answer and
// exactly three incorrect answers.
type Question struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	CategoryID uint64    `gorm:"not null;index"`        // Owning category ID.
	Category   *Category `gorm:"foreignKey:CategoryID"` // Owning category.

	Difficulty       Difficulty     `gorm:"type:text;not null"`             // Difficulty level.
	QuestionText     string         `gorm:"type:text;not null;uniqueIndex"` // Unique question text.
	Answer           string         `gorm:"type:text;not null"`             // Correct answer.
	IncorrectAnswers datatypes.JSON `gorm:"not null"`                       // JSON array of three incorrect answers.

	TimesAsked  int     `gorm:"not null;default:0"` // Usage counter.
	SuccessRate float64 `gorm:"not null;default:0"` // Fraction of correct responses.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}

// SetIncorrectAnswers encodes the incorrect answer list into the JSON column.
func (q *Question) SetIncorrectAnswers(answers []string) error {
	data, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("encode incorrect answers: %w", err)
	}
	q.IncorrectAnswers = datatypes.JSON(data)
	return nil
}

// IncorrectAnswerList decodes the JSON column back into a string slice.
func (q *Question) IncorrectAnswerList() ([]string, error) {
	if len(q.IncorrectAnswers) == 0 {
		return nil, nil
	}
	var answers []string
	if err := json.Unmarshal(q.IncorrectAnswers, &answers); err != nil {
		return nil, fmt.Errorf("decode incorrect answers: %w", err)
	}
	return answers, nil
}
