package paths

import (
	"os"
	"path/filepath"
)

func home() string {
	h, _ := os.UserHomeDir()
	return h
}

// Dir returns ~/.dashpick.
func Dir() string {
	return filepath.Join(home(), ".dashpick")
}

// ConfigFile returns ~/.dashpick/config.yaml.
func ConfigFile() string {
	return filepath.Join(Dir(), "config.yaml")
}

// TopologyFile returns ~/.dashpick/topology.yaml.
func TopologyFile() string {
	return filepath.Join(Dir(), "topology.yaml")
}
