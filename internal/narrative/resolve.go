package narrative

import (
	"context"
	"errors"
	"fmt"

	"MorningRadar/internal/model"
)

// Source tells where a narrative came from.
type Source string

const (
	SourceModel Source = "model"
	SourceRules Source = "rules"
)

// Result is a narrative tagged with its origin. Notice explains a fallback.
type Result struct {
	Narrative model.Narrative `json:"narrative"`
	Source    Source          `json:"source"`
	Notice    string          `json:"notice,omitempty"`
	Err       error           `json:"-"`
}

// Fallback derives a narrative from the band alone.
func Fallback(score model.CompositeScore) model.Narrative {
	return model.Narrative{
		Headline: fmt.Sprintf("시장 위험도 %d점: %s", score.Value, score.Level.Label),
		Action:   score.Level.Action,
	}
}

// Resolve asks gen for a narrative and falls back to the band text when gen
// is nil, fails, times out or replies with something unusable.
func Resolve(ctx context.Context, gen Generator, in Context) Result {
	if gen == nil {
		return Result{Narrative: Fallback(in.Score), Source: SourceRules}
	}

	n, err := gen.Generate(ctx, in)
	if err == nil {
		return Result{Narrative: n, Source: SourceModel}
	}

	notice := "AI 요약을 불러오지 못해 기본 안내를 표시합니다."
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		notice = "AI 요약 응답이 늦어 기본 안내를 표시합니다."
	case errors.Is(err, ErrMalformedReply):
		notice = "AI 요약 형식이 올바르지 않아 기본 안내를 표시합니다."
	}
	return Result{Narrative: Fallback(in.Score), Source: SourceRules, Notice: notice, Err: err}
}
