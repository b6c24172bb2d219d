package narrative

import (
	"context"
	"fmt"
	"strings"

	"MorningRadar/internal/model"
)

// Context is everything a generator may look at for one cycle.
type Context struct {
	Score     model.CompositeScore
	Weather   *model.Weather
	Flow      *model.InvestorFlow
	Headlines []model.Headline
}

// Generator produces a headline and an action for a scored cycle.
type Generator interface {
	Generate(ctx context.Context, in Context) (model.Narrative, error)
}

// BuildPrompt renders the instruction sent to the language model.
func BuildPrompt(in Context) string {
	var b strings.Builder
	b.WriteString("당신은 개인 투자자를 위한 아침 시장 브리핑 작성자입니다.\n")
	b.WriteString("아래 지표를 보고 한 줄 헤드라인과 오늘의 행동 지침을 작성하세요.\n")
	b.WriteString(`반드시 {"headline": "...", "action": "..."} 형식의 JSON 하나만 답하세요.` + "\n\n")

	s := in.Score
	fmt.Fprintf(&b, "종합 위험 점수: %d/100 (%s)\n", s.Value, s.Level.Label)
	for _, f := range s.Risks {
		fmt.Fprintf(&b, "- 위험: %s\n", f.Description)
	}
	for _, f := range s.Opportunities {
		fmt.Fprintf(&b, "- 기회: %s\n", f.Description)
	}
	if len(s.Missing) > 0 {
		fmt.Fprintf(&b, "- 수집 실패: %s\n", strings.Join(s.Missing, ", "))
	}
	if in.Flow != nil {
		fmt.Fprintf(&b, "수급(%s, 억원): 외국인 %+.0f, 기관 %+.0f, 개인 %+.0f\n",
			in.Flow.Market, in.Flow.Foreign, in.Flow.Institution, in.Flow.Individual)
	}
	if in.Weather != nil {
		fmt.Fprintf(&b, "날씨: %s %.1f°C\n", in.Weather.Summary, in.Weather.TempC)
	}
	if len(in.Headlines) > 0 {
		b.WriteString("주요 뉴스:\n")
		for _, h := range in.Headlines {
			fmt.Fprintf(&b, "- %s\n", h.Title)
		}
	}
	return b.String()
}
