package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/diagnosis/jobiq-care/pkg/logger"
	"github.com/diagnosis/jobiq-care/services/advisor/internal/ai"
)

const (
	questionCount       = 6
	recommendationCount = 4
)

var (
	ErrEmptyCV      = errors.New("No CV text provided")
	ErrProvider     = errors.New("ai provider error")
	ErrMissingInput = errors.New("missing input")
)

// Result is whatever JSON object the model produced, or the
// {"error": "Invalid JSON", "raw": ...} fallback.
type Result map[string]any

type AdvisorService interface {
	AnalyzeCV(ctx context.Context, text string) (Result, error)
	GenerateQuestions(ctx context.Context, cv map[string]any) (Result, error)
	GenerateResult(ctx context.Context, cv map[string]any, answers []any) (Result, error)
}

type advisorService struct {
	completer ai.Completer
}

func NewAdvisorService(completer ai.Completer) AdvisorService {
	return &advisorService{completer: completer}
}

func (s *advisorService) AnalyzeCV(ctx context.Context, text string) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyCV
	}
	return s.run(ctx, analyzeCVPrompt, map[string]any{"Text": text})
}

func (s *advisorService) GenerateQuestions(ctx context.Context, cv map[string]any) (Result, error) {
	if cv == nil {
		return nil, fmt.Errorf("%w: cvData is required", ErrMissingInput)
	}
	cvJSON, err := indentJSON(cv)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, questionsPrompt, map[string]any{"CV": cvJSON, "Count": questionCount})
}

func (s *advisorService) GenerateResult(ctx context.Context, cv map[string]any, answers []any) (Result, error) {
	if cv == nil {
		return nil, fmt.Errorf("%w: cvData is required", ErrMissingInput)
	}
	if answers == nil {
		return nil, fmt.Errorf("%w: answers are required", ErrMissingInput)
	}
	cvJSON, err := indentJSON(cv)
	if err != nil {
		return nil, err
	}
	answersJSON, err := indentJSON(answers)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, resultPrompt, map[string]any{"CV": cvJSON, "Answers": answersJSON, "Count": recommendationCount})
}

func (s *advisorService) run(ctx context.Context, tmpl *template.Template, data map[string]any) (Result, error) {
	var prompt bytes.Buffer
	if err := tmpl.Execute(&prompt, data); err != nil {
		return nil, fmt.Errorf("failed to render %s prompt: %w", tmpl.Name(), err)
	}

	content, err := s.completer.Complete(ctx, prompt.String())
	if err != nil {
		logger.ErrorContext(ctx, "AI provider call failed", "error", err, "prompt", tmpl.Name())
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}

	return ExtractJSON(content), nil
}

// ExtractJSON parses the span from the first '{' to the last '}'. Models
// often wrap JSON in prose or code fences.
func ExtractJSON(content string) Result {
	content = strings.TrimSpace(content)
	start := strings.IndexByte(content, '{')
	end := strings.LastIndexByte(content, '}')
	if start >= 0 && end > start {
		var out Result
		if err := json.Unmarshal([]byte(content[start:end+1]), &out); err == nil {
			return out
		}
	}
	return Result{"error": "Invalid JSON", "raw": content}
}

func indentJSON(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode prompt input: %w", err)
	}
	return string(b), nil
}
