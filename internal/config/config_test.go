package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"othello_go/internal/game"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "othello.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
search:
  time_budget: 0.25
  seed: 99
eval:
  late:
    stability: 40
ui:
  mode: pvp
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.25, cfg.Search.TimeBudget)
	assert.Equal(t, 250*time.Millisecond, cfg.Search.Budget())
	assert.Equal(t, int64(99), cfg.Search.Seed)
	assert.Equal(t, 40, cfg.Eval.Late.Stability)
	assert.Equal(t, game.DefaultEvalParams().Late.Mobility, cfg.Eval.Late.Mobility)
	assert.Equal(t, game.DefaultEvalParams().Midgame, cfg.Eval.Midgame)
	assert.Equal(t, "pvp", cfg.UI.Mode)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, Default().Search.MaxDepth, cfg.Search.MaxDepth)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "search:\n  time_budget: 3\n")
	t.Setenv("OTHELLO_TIME_BUDGET", "0.5")
	t.Setenv("OTHELLO_HUMAN_SIDE", "2")
	t.Setenv("OTHELLO_SHOW_EVAL", "true")
	t.Setenv("OTHELLO_MAX_DEPTH", "not-a-number")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Search.TimeBudget)
	assert.Equal(t, 2, cfg.UI.HumanSide)
	assert.Equal(t, game.PlayerB, cfg.UI.HumanPlayer())
	assert.True(t, cfg.UI.ShowEval)
	assert.Equal(t, Default().Search.MaxDepth, cfg.Search.MaxDepth)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"bad yaml":        "search: [",
		"negative budget": "search:\n  time_budget: -1\n",
		"zero depth":      "search:\n  max_depth: 0\n",
		"mode":            "ui:\n  mode: online\n",
		"side":            "ui:\n  human_side: 3\n",
		"level":           "log:\n  level: loud\n",
		"format":          "log:\n  format: xml\n",
		"phases":          "eval:\n  midgame_max_disks: 60\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, body))
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	require.NoError(t, err)
	log.Info("hidden")
	log.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	log, err = LogConfig{Level: "info", Format: "text"}.NewLogger(&buf)
	require.NoError(t, err)
	log.Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")

	_, err = LogConfig{Level: "nope"}.NewLogger(&buf)
	assert.Error(t, err)
}

func TestSeededRandIsReproducible(t *testing.T) {
	s := SearchConfig{Seed: 12}
	assert.Equal(t, s.NewRand().Int63(), s.NewRand().Int63())

	opts := Default().EngineOptions(nil)
	assert.NotNil(t, opts.Evaluator)
	assert.NotNil(t, opts.Rand)
	assert.Equal(t, Default().Search.MaxDepth, opts.MaxDepth)
}
