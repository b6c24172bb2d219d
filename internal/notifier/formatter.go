package notifier

import (
	"fmt"
	"html"
	"strings"

	"MorningRadar/internal/board"
	"MorningRadar/internal/model"
	"MorningRadar/internal/narrative"
)

var bandEmoji = map[string]string{
	"green":  "🟢",
	"teal":   "🟢",
	"yellow": "🟡",
	"orange": "🟠",
	"red":    "🔴",
}

// FormatReport renders a report as a Telegram HTML message.
func FormatReport(r *board.Report) string {
	var b strings.Builder
	s := r.Score

	b.WriteString(fmt.Sprintf("☀️ <b>Morning Radar</b> | %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("%s 시장 위험도 <b>%d</b>/100 · %s\n",
		emojiFor(s.Level.Color), s.Value, html.EscapeString(s.Level.Label)))
	if s.Escalated {
		b.WriteString(fmt.Sprintf("   (가중 평균 %d점, 단일 지표 %.0f점으로 상향)\n", s.Raw, s.MaxSingle))
	}

	n := r.Narrative
	b.WriteString(fmt.Sprintf("\n📰 <b>%s</b>\n", html.EscapeString(n.Narrative.Headline)))
	b.WriteString(fmt.Sprintf("💡 %s\n", html.EscapeString(n.Narrative.Action)))
	if n.Source == narrative.SourceRules && n.Notice != "" {
		b.WriteString(fmt.Sprintf("<i>%s</i>\n", html.EscapeString(n.Notice)))
	}

	writeFactors(&b, "⚠️ <b>위험 요인</b>", s.Risks)
	writeFactors(&b, "✅ <b>기회 요인</b>", s.Opportunities)

	if f := r.Snapshot.Flow; f != nil {
		b.WriteString(fmt.Sprintf("\n💹 <b>%s 수급</b> (억원)\n", html.EscapeString(f.Market)))
		b.WriteString(fmt.Sprintf("  외국인 %+.0f | 기관 %+.0f | 개인 %+.0f\n", f.Foreign, f.Institution, f.Individual))
	}
	if w := r.Snapshot.Weather; w != nil {
		b.WriteString(fmt.Sprintf("\n🌤 %s %.1f°C, 바람 %.0fkm/h\n", html.EscapeString(w.Summary), w.TempC, w.WindKmh))
	}
	if len(s.Missing) > 0 {
		b.WriteString(fmt.Sprintf("\n❔ 수집 실패: %s\n", html.EscapeString(strings.Join(s.Missing, ", "))))
	}
	return b.String()
}

func writeFactors(b *strings.Builder, title string, factors []model.RiskFactor) {
	if len(factors) == 0 {
		return
	}
	b.WriteString("\n" + title + "\n")
	for _, f := range factors {
		b.WriteString(fmt.Sprintf("  • %s\n", html.EscapeString(f.Description)))
	}
}

func emojiFor(color string) string {
	if e, ok := bandEmoji[color]; ok {
		return e
	}
	return "⚪"
}

// HelpText lists the chat commands.
const HelpText = "사용 가능한 명령:\n" +
	"• /score  최근 위험도 리포트\n" +
	"• /refresh  지금 새로 계산\n" +
	"• /help  도움말"
