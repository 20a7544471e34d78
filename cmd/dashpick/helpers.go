package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/ruminaider/dashpick/internal/config"
	"github.com/ruminaider/dashpick/internal/filter"
	"github.com/ruminaider/dashpick/internal/paths"
	"github.com/ruminaider/dashpick/internal/selector"
	"github.com/ruminaider/dashpick/internal/topology"
)

func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}

// topologyPath picks the topology file: the flag, then the config, then
// ~/.dashpick/topology.yaml.
func topologyPath(flag string, cfg config.Config) string {
	if flag != "" {
		return flag
	}
	if cfg.TopologyFile != "" {
		return cfg.TopologyFile
	}
	return paths.TopologyFile()
}

// splitKeys parses a comma-separated value, dropping blanks.
func splitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func matcherFor(cfg config.Config) filter.Matcher {
	if len(cfg.MatchAttrs) == 0 {
		return filter.Default
	}
	return filter.Attrs(cfg.MatchAttrs...)
}

func newSelector(cfg config.Config, onChange func([]string)) *selector.Selector {
	return selector.New(selector.Options{
		DefaultSelectAll: cfg.DefaultSelectAll,
		IncludeTiFlash:   cfg.IncludeTiFlash,
		Matcher:          matcherFor(cfg),
		OnChange:         onChange,
	})
}

// reportSourceErrors warns about sources that failed and were loaded empty.
func reportSourceErrors(w io.Writer, l *topology.Loader) {
	for _, name := range l.Names() {
		if err := l.Err(name); err != nil {
			fmt.Fprintf(w, "warning: %s: %v\n", name, err)
		}
	}
}
