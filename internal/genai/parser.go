package genai

import (
	"fmt"
	"strings"
)

// Placeholder values used when the response cannot be parsed or is incomplete.
const (
	UnknownQuestion        = "Unknown Question"
	UnknownAnswer          = "Unknown Answer"
	UnknownIncorrectAnswer = "Unknown Incorrect Answer"
)

// requiredIncorrectAnswers is the exact number every question carries.
const requiredIncorrectAnswers = 3

// ParsedQuestion is the structured result of parsing a raw completion.
type ParsedQuestion struct {
	QuestionText     string
	Answer           string
	IncorrectAnswers []string
}

// FallbackQuestion is the fixed record returned when parsing fails.
func FallbackQuestion() ParsedQuestion {
	return ParsedQuestion{
		QuestionText: UnknownQuestion,
		Answer:       UnknownAnswer,
		IncorrectAnswers: []string{
			UnknownIncorrectAnswer,
			UnknownIncorrectAnswer,
			UnknownIncorrectAnswer,
		},
	}
}

// ParseQuestionResponse turns a free-form, line-oriented completion into a
// structured question record. Lines prefixed (case-insensitively) with
// "question:" and "answer:" set those fields; "incorrect answers:" is a
// section header; every other non-empty line is collected as an incorrect
// answer after stripping an "Incorrect Answer" literal and a numbered-list
// prefix. When no answer line appears, the first collected incorrect answer
// is promoted to be the correct one. The incorrect list is padded with a
// placeholder and truncated to exactly three entries. Parsing never fails:
// any panic yields the fixed fallback record.
func ParseQuestionResponse(raw string) (parsed ParsedQuestion) {
	defer func() {
		if recover() != nil {
			parsed = FallbackQuestion()
		}
	}()

	var incorrect []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "question:"):
			parsed.QuestionText = strings.TrimSpace(line[len("question:"):])
		case strings.HasPrefix(lower, "incorrect answers:"):
			// Section header, nothing to collect.
		case strings.HasPrefix(lower, "answer:"):
			parsed.Answer = strings.TrimSpace(line[len("answer:"):])
		default:
			entry := strings.TrimSpace(strings.TrimPrefix(line, "Incorrect Answer"))
			listPrefix := fmt.Sprintf("%d.", len(incorrect)+1)
			entry = strings.TrimSpace(strings.TrimPrefix(entry, listPrefix))
			incorrect = append(incorrect, entry)
		}
	}

	// Some completions label the correct answer as the first list entry
	// instead of using an "Answer:" line.
	if parsed.Answer == "" && len(incorrect) > 0 {
		parsed.Answer = strings.TrimSpace(strings.TrimPrefix(incorrect[0], "Correct Answer:"))
		incorrect = incorrect[1:]
	}

	for len(incorrect) < requiredIncorrectAnswers {
		incorrect = append(incorrect, UnknownIncorrectAnswer)
	}
	parsed.IncorrectAnswers = incorrect[:requiredIncorrectAnswers]
	return parsed
}
