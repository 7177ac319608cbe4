package genai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quizforge/trivia-api/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrDuplicateQuestion indicates a question with identical text already exists.
var ErrDuplicateQuestion = errors.New("question already exists")

// Completer produces a raw completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Pipeline generates trivia questions through an external completion
// service: prompt build, invoke, parse, dedupe, persist.
type Pipeline struct {
	db     *gorm.DB
	client Completer
	now    func() time.Time
}

// NewPipeline constructs a question generation pipeline.
func NewPipeline(db *gorm.DB, client Completer) *Pipeline {
	return &Pipeline{db: db, client: client, now: time.Now}
}

// Generate produces and persists one new question for the category. Returns
// ErrGenerationFailed on transport failure and ErrDuplicateQuestion when the
// generated text collides with an existing question.
func (p *Pipeline) Generate(ctx context.Context, categoryName string, categoryID uint64, difficulty models.Difficulty) (models.Question, error) {
	prompt := buildPrompt(categoryName, difficulty)

	raw, errComplete := p.client.Complete(ctx, prompt)
	if errComplete != nil {
		return models.Question{}, errComplete
	}

	parsed := ParseQuestionResponse(raw)
	log.WithFields(log.Fields{"category": categoryName, "difficulty": difficulty}).
		Debug("parsed generated question")

	var count int64
	if errCount := p.db.WithContext(ctx).Model(&models.Question{}).
		Where("question_text = ?", parsed.QuestionText).
		Count(&count).Error; errCount != nil {
		return models.Question{}, fmt.Errorf("check duplicate question: %w", errCount)
	}
	if count > 0 {
		return models.Question{}, ErrDuplicateQuestion
	}

	question := models.Question{
		CategoryID:   categoryID,
		Difficulty:   difficulty,
		QuestionText: parsed.QuestionText,
		Answer:       parsed.Answer,
		CreatedAt:    p.now().UTC(),
	}
	if errEncode := question.SetIncorrectAnswers(parsed.IncorrectAnswers); errEncode != nil {
		return models.Question{}, errEncode
	}

	if errCreate := p.db.WithContext(ctx).Create(&question).Error; errCreate != nil {
		// A concurrent writer may have inserted the same text between the
		// pre-check and the insert; the unique constraint is authoritative.
		var again int64
		if p.db.WithContext(ctx).Model(&models.Question{}).
			Where("question_text = ?", parsed.QuestionText).
			Count(&again).Error == nil && again > 0 {
			return models.Question{}, ErrDuplicateQuestion
		}
		return models.Question{}, fmt.Errorf("persist question: %w", errCreate)
	}
	return question, nil
}

// buildPrompt interpolates category and difficulty into the generation
// instruction. Novelty is a hint to the generator, not enforced.
func buildPrompt(categoryName string, difficulty models.Difficulty) string {
	return fmt.Sprintf(
		"Generate one %s trivia question about %s on a topic you have not been asked about before. "+
			"Respond with exactly these lines:\n"+
			"Question: <the question>\n"+
			"Answer: <the correct answer>\n"+
			"Incorrect Answers:\n"+
			"1. <first incorrect answer>\n"+
			"2. <second incorrect answer>\n"+
			"3. <third incorrect answer>",
		difficulty, categoryName,
	)
}
