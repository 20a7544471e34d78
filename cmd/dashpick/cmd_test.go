package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ruminaider/dashpick/internal/config"
	"github.com/ruminaider/dashpick/internal/paths"
	"github.com/ruminaider/dashpick/internal/timerange"
	"github.com/ruminaider/dashpick/internal/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopology = `pd:
  - address: pd-1:2379
tidb:
  - address: tidb-1:4000
    status: down
tikv:
  - address: tikv-1:20160
  - address: tikv-2:20160
tiflash:
  - address: flash-1:3930
`

func writeTopology(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "topology.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testTopology), 0644))
	return path
}

func TestSplitKeys(t *testing.T) {
	assert.Nil(t, splitKeys(""))
	assert.Equal(t, []string{"a", "b"}, splitKeys(" a, ,b,"))
}

func TestTopologyPath(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, paths.TopologyFile(), topologyPath("", cfg))

	cfg.TopologyFile = "/etc/topo.yaml"
	assert.Equal(t, "/etc/topo.yaml", topologyPath("", cfg))
	assert.Equal(t, "flag.yaml", topologyPath("flag.yaml", cfg))
}

func TestSelectOnce_DefaultSelectAll(t *testing.T) {
	loader := topology.NewLoader(topology.FileSources(writeTopology(t)))
	sel := newSelector(config.Default(), nil)
	sel.Mount(nil)

	var out, errOut bytes.Buffer
	require.NoError(t, selectOnce(context.Background(), sel, loader, &out, &errOut))
	assert.Equal(t, "pd-1:2379,tidb-1:4000,tikv-1:20160,tikv-2:20160\n", out.String())
	assert.Contains(t, errOut.String(), "selected: All instances")
}

func TestSelectOnce_DropsUnknownKeys(t *testing.T) {
	loader := topology.NewLoader(topology.FileSources(writeTopology(t)))
	var pushed [][]string
	sel := newSelector(config.Default(), func(v []string) { pushed = append(pushed, v) })
	sel.Mount(splitKeys("tikv-2:20160,gone:1"))

	var out, errOut bytes.Buffer
	require.NoError(t, selectOnce(context.Background(), sel, loader, &out, &errOut))
	assert.Equal(t, "tikv-2:20160\n", out.String())
	assert.Len(t, pushed, 1)
	assert.Contains(t, errOut.String(), "1 TiKV")
}

func TestSelectOnce_TiFlash(t *testing.T) {
	loader := topology.NewLoader(topology.FileSources(writeTopology(t)))
	cfg := config.Default()
	cfg.IncludeTiFlash = true
	sel := newSelector(cfg, nil)
	sel.Mount(nil)

	var out, errOut bytes.Buffer
	require.NoError(t, selectOnce(context.Background(), sel, loader, &out, &errOut))
	assert.Contains(t, out.String(), "flash-1:3930")
}

func TestSelectOnce_MissingTopologyKeepsValue(t *testing.T) {
	loader := topology.NewLoader(topology.FileSources(filepath.Join(t.TempDir(), "missing.yaml")))
	sel := newSelector(config.Default(), nil)
	sel.Mount([]string{"tikv-1:20160"})

	var out, errOut bytes.Buffer
	require.NoError(t, selectOnce(context.Background(), sel, loader, &out, &errOut))
	assert.Equal(t, "tikv-1:20160\n", out.String(), "an empty topology leaves the value alone")
	assert.Contains(t, errOut.String(), "warning: pd:")
}

func TestSelectOnce_Cancelled(t *testing.T) {
	loader := topology.NewLoader(topology.FileSources(writeTopology(t)))
	sel := newSelector(config.Default(), nil)
	sel.Mount(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out, errOut bytes.Buffer
	err := selectOnce(ctx, sel, loader, &out, &errOut)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestListInstances(t *testing.T) {
	loader := topology.NewLoader(topology.FileSources(writeTopology(t)))

	var out, errOut bytes.Buffer
	require.NoError(t, listInstances(context.Background(), loader, config.Default(), "down", &out, &errOut))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "TiDB")
	assert.Contains(t, lines[0], "tidb-1:4000")
	assert.Contains(t, lines[0], "down")
}

func TestListInstances_NoMatch(t *testing.T) {
	loader := topology.NewLoader(topology.FileSources(writeTopology(t)))

	var out, errOut bytes.Buffer
	require.NoError(t, listInstances(context.Background(), loader, config.Default(), "nothing", &out, &errOut))
	assert.Equal(t, "No instances.\n", out.String())
}

func TestResolveRange(t *testing.T) {
	start, end, err := resolveRange("recent:1h", timerange.Default, 10000)
	require.NoError(t, err)
	assert.Equal(t, int64(6400), start)
	assert.Equal(t, int64(10000), end)

	start, end, err = resolveRange("", timerange.Default, 10000)
	require.NoError(t, err)
	assert.Equal(t, int64(8200), start)
	assert.Equal(t, int64(10000), end)

	start, end, err = resolveRange("100..200", timerange.Default, 10000)
	require.NoError(t, err)
	assert.Equal(t, int64(100), start)
	assert.Equal(t, int64(200), end)

	_, _, err = resolveRange("200..100", timerange.Default, 10000)
	var inv *timerange.InvalidAbsoluteRangeError
	assert.True(t, errors.As(err, &inv))
}

func TestPresetOptions(t *testing.T) {
	options := presetOptions()
	require.Len(t, options, len(timerange.RecentPresets)+1)
	assert.Equal(t, "Recent 15 min", options[0].Key)
	assert.Equal(t, customRange, options[len(options)-1].Value)
}

func TestValidators(t *testing.T) {
	assert.NoError(t, validateUnix("1700000000"))
	assert.Error(t, validateUnix("yesterday"))

	assert.NoError(t, validateTopologyFile(""))
	assert.NoError(t, validateTopologyFile(writeTopology(t)))
	assert.Error(t, validateTopologyFile(t.TempDir()))
	assert.Error(t, validateTopologyFile(filepath.Join(t.TempDir(), "nope.yaml")))
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "dashpick "+version+"\n", out.String())
}

func TestTimerangeResolveCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	missing := filepath.Join(t.TempDir(), "config.yaml")
	rootCmd.SetArgs([]string{"timerange", "resolve", "recent:1h", "--now", "7200", "--config", missing})
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "3600 7200\n", out.String())
}

func TestConfigShowCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := config.Default()
	cfg.IncludeTiFlash = true
	require.NoError(t, config.Save(path, cfg))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config", "show", "--config", path})
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "include_tiflash: true")
}

func TestApplySelectFlags(t *testing.T) {
	cfg := config.Default()
	applySelectFlags(selectCmd, &cfg)
	assert.True(t, cfg.DefaultSelectAll, "unset flags leave the config alone")

	require.NoError(t, selectCmd.Flags().Set("default-all", "false"))
	require.NoError(t, selectCmd.Flags().Set("tiflash", "true"))
	applySelectFlags(selectCmd, &cfg)
	assert.False(t, cfg.DefaultSelectAll)
	assert.True(t, cfg.IncludeTiFlash)
}
