package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Inputs         []string `json:"inputs" yaml:"inputs"`
	RunSummary     string   `json:"run_summary" yaml:"run_summary"`
	ReportRoot     string   `json:"report_root" yaml:"report_root"`
	LogFile        string   `json:"log_file" yaml:"log_file"`
	LogLevel       string   `json:"log_level" yaml:"log_level"`
	Format         string   `json:"format" yaml:"format"`
	Encoder        string   `json:"encoder" yaml:"encoder"`
	Workers        int      `json:"workers" yaml:"workers"`
	InitialRows    int      `json:"initial_rows" yaml:"initial_rows"`
	DetectMaxLines int      `json:"detect_max_lines" yaml:"detect_max_lines"`
}

// LoadConfig loads a JSON or YAML config from the given path, keyed on the
// file extension. If path is empty, looks for ./config.json, then
// ./config.yaml. A missing file is not fatal: defaults are returned.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		for _, p := range []string{"config.json", "config.yaml", "config.yml"} {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
		if path == "" {
			return &Config{}, nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		// not fatal: return defaults
		return &Config{}, nil
	}
	var c Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &c)
	default:
		err = json.Unmarshal(data, &c)
	}
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &c, nil
}
