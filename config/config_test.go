package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"horizon-eval/internal/domain/metrics"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HORIZON_GT_FILE", "gt.csv")
	t.Setenv("HORIZON_DETECTIONS_FILE", "det.csv")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ".JPG", cfg.GroundTruthSuffix)
	require.Equal(t, "results", cfg.OutputDir)
	require.Equal(t, "horizon", cfg.Prefix)
	require.Equal(t, 4, cfg.Workers)
	require.Equal(t, metrics.IncludeUndefined, cfg.UndefinedPolicy)
	require.False(t, cfg.WriteXLSX)
	require.False(t, cfg.NotifyEnabled())
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HORIZON_GT_FILE", "gt.csv")
	t.Setenv("HORIZON_FRAMES_DIR", "frames")
	t.Setenv("HORIZON_WORKERS", "12")
	t.Setenv("HORIZON_UNDEFINED_POLICY", "exclude")
	t.Setenv("HORIZON_XLSX", "true")
	t.Setenv("HORIZON_PLOT", "1")
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 12, cfg.Workers)
	require.Equal(t, metrics.ExcludeUndefined, cfg.UndefinedPolicy)
	require.True(t, cfg.WriteXLSX)
	require.True(t, cfg.WritePlot)
	require.Equal(t, int64(-100123), cfg.TelegramChatID)
	require.True(t, cfg.NotifyEnabled())
	require.NoError(t, cfg.Validate())
}

func TestLoad_InvalidValues(t *testing.T) {
	chdir(t, t.TempDir())

	t.Setenv("HORIZON_WORKERS", "many")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("HORIZON_WORKERS", "")
	t.Setenv("HORIZON_UNDEFINED_POLICY", "ignore")
	_, err = Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	require.Error(t, (&Config{Workers: 1}).Validate())
	require.Error(t, (&Config{GroundTruthFile: "gt", Workers: 1}).Validate())
	require.Error(t, (&Config{GroundTruthFile: "gt", DetectionsFile: "d", FramesDir: "f", Workers: 1}).Validate())
	require.Error(t, (&Config{GroundTruthFile: "gt", DetectionsFile: "d"}).Validate())
	require.NoError(t, (&Config{GroundTruthFile: "gt", DetectionsFile: "d", Workers: 1}).Validate())
}

// chdir changes the working directory for the duration of the test
// (stand-in for testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
