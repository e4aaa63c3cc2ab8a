package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Result
	}{
		{"plain", `{"a":1}`, Result{"a": float64(1)}},
		{"fenced", "```json\n{\"a\":\"b\"}\n```", Result{"a": "b"}},
		{"prose around", `Sure! {"x": {"y": 2}} hope this helps`, Result{"x": map[string]any{"y": float64(2)}}},
		{"no braces", "sorry, I can't", Result{"error": "Invalid JSON", "raw": "sorry, I can't"}},
		{"broken", `{"a": }`, Result{"error": "Invalid JSON", "raw": `{"a": }`}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractJSON(tc.in))
		})
	}
}

func TestAnalyzeCV(t *testing.T) {
	fc := &fakeCompleter{reply: `{"name":"Ana","top_skills":["go"]}`}
	svc := NewAdvisorService(fc)

	res, err := svc.AnalyzeCV(context.Background(), "  Ana, Go developer, 5 years  ")
	require.NoError(t, err)
	assert.Equal(t, "Ana", res["name"])
	require.Len(t, fc.prompts, 1)
	assert.Contains(t, fc.prompts[0], "Ana, Go developer, 5 years")

	_, err = svc.AnalyzeCV(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyCV)
	assert.Len(t, fc.prompts, 1, "empty text never reaches the provider")
}

func TestGenerateQuestions(t *testing.T) {
	fc := &fakeCompleter{reply: `{"questions":["q1","q2"]}`}
	svc := NewAdvisorService(fc)

	res, err := svc.GenerateQuestions(context.Background(), map[string]any{"name": "Ana"})
	require.NoError(t, err)
	assert.Equal(t, []any{"q1", "q2"}, res["questions"])
	assert.Contains(t, fc.prompts[0], `"name": "Ana"`)
	assert.Contains(t, fc.prompts[0], "generate 6 relevant")

	_, err = svc.GenerateQuestions(context.Background(), nil)
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestGenerateResult(t *testing.T) {
	fc := &fakeCompleter{reply: `{"recommendations":[]}`}
	svc := NewAdvisorService(fc)

	_, err := svc.GenerateResult(context.Background(), map[string]any{"name": "Ana"}, []any{"I like APIs"})
	require.NoError(t, err)
	assert.Contains(t, fc.prompts[0], "I like APIs")
	assert.Contains(t, fc.prompts[0], "top 4")

	_, err = svc.GenerateResult(context.Background(), map[string]any{}, nil)
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestProviderFailure(t *testing.T) {
	svc := NewAdvisorService(&fakeCompleter{err: errors.New("quota exceeded")})

	_, err := svc.AnalyzeCV(context.Background(), "cv")
	assert.ErrorIs(t, err, ErrProvider)
}
