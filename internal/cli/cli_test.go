package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MorningRadar/internal/board"
	"MorningRadar/internal/config"
	"MorningRadar/internal/narrative"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("RADAR_PRESET", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "radar dev\n", out)
}

func TestPresets(t *testing.T) {
	out, err := run(t, "presets")
	require.NoError(t, err)
	for _, name := range config.PresetNames() {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "DESCRIPTION")
}

func TestOnce_JSONMock(t *testing.T) {
	out, err := run(t, "once", "--json", "--mock", "--preset", "morning")
	require.NoError(t, err)

	var r board.Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.NotEmpty(t, r.ID)
	assert.Len(t, r.Score.Contributions, 2)
	assert.Empty(t, r.Score.Missing)
	assert.GreaterOrEqual(t, r.Score.Value, 40, "both indicators sit inside their danger range")
	assert.LessOrEqual(t, r.Score.Value, 100)
	assert.Equal(t, narrative.SourceRules, r.Narrative.Source)
	assert.Equal(t, r.Score.Level.Action, r.Narrative.Narrative.Action)
}

func TestOnce_TextMock(t *testing.T) {
	out, err := run(t, "once", "--mock", "--preset", "classic")
	require.NoError(t, err)
	assert.Contains(t, out, "위험도")
	assert.Contains(t, out, "가중치")
	// the flow indicator has no mock source
	assert.Contains(t, out, "수집 실패: foreign")
}

func TestOnce_UnknownPreset(t *testing.T) {
	_, err := run(t, "once", "--mock", "--preset", "nope")
	assert.Error(t, err)
}

func TestSampleFetcher(t *testing.T) {
	cfg := &config.Config{}
	require.NoError(t, cfg.UsePreset("semis"))

	m := sampleFetcher(cfg.Indicators)
	for _, ind := range cfg.Indicators {
		if ind.Source == config.SourceQuote {
			assert.Len(t, m.Prices[ind.Symbol], 2, ind.ID)
		}
	}
}
