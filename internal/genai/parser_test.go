package genai

import (
	"reflect"
	"testing"
)

func TestParseQuestionResponse_RoundTrip(t *testing.T) {
	raw := "Question: Q\nAnswer: A\nIncorrect 1\nIncorrect 2\nIncorrect 3"
	parsed := ParseQuestionResponse(raw)

	if parsed.QuestionText != "Q" {
		t.Fatalf("unexpected question: %q", parsed.QuestionText)
	}
	if parsed.Answer != "A" {
		t.Fatalf("unexpected answer: %q", parsed.Answer)
	}
	want := []string{"Incorrect 1", "Incorrect 2", "Incorrect 3"}
	if !reflect.DeepEqual(parsed.IncorrectAnswers, want) {
		t.Fatalf("unexpected incorrect answers: %v", parsed.IncorrectAnswers)
	}
}

func TestParseQuestionResponse_CaseInsensitivePrefixes(t *testing.T) {
	raw := "QUESTION: What is Go?\nANSWER: A language\nIncorrect Answers:\nA bird\nA game\nA car"
	parsed := ParseQuestionResponse(raw)

	if parsed.QuestionText != "What is Go?" {
		t.Fatalf("unexpected question: %q", parsed.QuestionText)
	}
	if parsed.Answer != "A language" {
		t.Fatalf("unexpected answer: %q", parsed.Answer)
	}
	want := []string{"A bird", "A game", "A car"}
	if !reflect.DeepEqual(parsed.IncorrectAnswers, want) {
		t.Fatalf("unexpected incorrect answers: %v", parsed.IncorrectAnswers)
	}
}

func TestParseQuestionResponse_StripsListPrefixes(t *testing.T) {
	raw := "Question: Q\nAnswer: A\nIncorrect Answers:\n1. First\n2. Second\n3. Third"
	parsed := ParseQuestionResponse(raw)

	want := []string{"First", "Second", "Third"}
	if !reflect.DeepEqual(parsed.IncorrectAnswers, want) {
		t.Fatalf("unexpected incorrect answers: %v", parsed.IncorrectAnswers)
	}
}

func TestParseQuestionResponse_StripsIncorrectAnswerLiteral(t *testing.T) {
	raw := "Question: Q\nAnswer: A\nIncorrect Answer 1. First\nIncorrect Answer 2. Second\nIncorrect Answer 3. Third"
	parsed := ParseQuestionResponse(raw)

	want := []string{"First", "Second", "Third"}
	if !reflect.DeepEqual(parsed.IncorrectAnswers, want) {
		t.Fatalf("unexpected incorrect answers: %v", parsed.IncorrectAnswers)
	}
}

func TestParseQuestionResponse_PromotesFirstIncorrectWhenNoAnswerLine(t *testing.T) {
	raw := "Question: Q\nCorrect Answer: The right one\nWrong 1\nWrong 2\nWrong 3"
	parsed := ParseQuestionResponse(raw)

	if parsed.Answer != "The right one" {
		t.Fatalf("unexpected answer: %q", parsed.Answer)
	}
	want := []string{"Wrong 1", "Wrong 2", "Wrong 3"}
	if !reflect.DeepEqual(parsed.IncorrectAnswers, want) {
		t.Fatalf("unexpected incorrect answers: %v", parsed.IncorrectAnswers)
	}
}

func TestParseQuestionResponse_PadsToThree(t *testing.T) {
	parsed := ParseQuestionResponse("Question: Q\nAnswer: A")

	want := []string{UnknownIncorrectAnswer, UnknownIncorrectAnswer, UnknownIncorrectAnswer}
	if !reflect.DeepEqual(parsed.IncorrectAnswers, want) {
		t.Fatalf("expected three placeholders, got %v", parsed.IncorrectAnswers)
	}
}

func TestParseQuestionResponse_TruncatesToThree(t *testing.T) {
	raw := "Question: Q\nAnswer: A\nW1\nW2\nW3\nW4\nW5"
	parsed := ParseQuestionResponse(raw)

	if len(parsed.IncorrectAnswers) != 3 {
		t.Fatalf("expected exactly 3 incorrect answers, got %d", len(parsed.IncorrectAnswers))
	}
}

func TestFallbackQuestion_Deterministic(t *testing.T) {
	first := FallbackQuestion()
	second := FallbackQuestion()

	if first.QuestionText != UnknownQuestion || first.Answer != UnknownAnswer {
		t.Fatalf("unexpected fallback: %+v", first)
	}
	if len(first.IncorrectAnswers) != 3 {
		t.Fatalf("expected 3 placeholder answers, got %d", len(first.IncorrectAnswers))
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("fallback is not deterministic")
	}
}

func TestParseQuestionResponse_EmptyInput(t *testing.T) {
	parsed := ParseQuestionResponse("")

	if parsed.QuestionText != "" || parsed.Answer != "" {
		t.Fatalf("unexpected parse of empty input: %+v", parsed)
	}
	if len(parsed.IncorrectAnswers) != 3 {
		t.Fatalf("expected 3 placeholders, got %d", len(parsed.IncorrectAnswers))
	}
}
