package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/hoopstats/internal/config"
)

func TestRequestDelayFlag(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Cleanup(func() {
		f := rootCmd.PersistentFlags().Lookup("request-delay")
		_ = f.Value.Set(config.DefaultRequestDelay.String())
		f.Changed = false
	})

	for _, c := range []struct {
		name string
		cmd  func() error
		want time.Duration
	}{
		{"bulk", func() error { return bulkCmd.ParseFlags([]string{"--request-delay", "3s"}) }, 3 * time.Second},
		{"ingest", func() error { return ingestCmd.ParseFlags([]string{"--request-delay", "1500ms"}) }, 1500 * time.Millisecond},
	} {
		t.Run(c.name, func(t *testing.T) {
			require.NoError(t, c.cmd())
			require.NoError(t, loadConfig())
			assert.Equal(t, c.want, cfg.RequestDelay)
		})
	}
}

func TestRecomputeWindowsFlag(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Cleanup(func() {
		f := rollingRecomputeCmd.Flags().Lookup("windows")
		_ = f.Value.Set("")
		f.Changed = false
		v.Set("windows", []int{5, 10, 20})
	})

	require.NoError(t, rollingRecomputeCmd.ParseFlags([]string{"--windows", "5, 10"}))
	require.NoError(t, loadConfig())
	assert.Equal(t, []int{5, 10}, cfg.Windows)
}
