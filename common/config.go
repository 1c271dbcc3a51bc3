package common

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServiceConfig mirrors the command line flags of the httpserver binary.
// Values from a config file act as defaults; explicitly set flags win.
type ServiceConfig struct {
	ListenAddr   string `yaml:"listen_addr"`
	MetricsAddr  string `yaml:"metrics_addr"`
	KeyDir       string `yaml:"key_dir"`
	ArtifactsDir string `yaml:"artifacts_dir"`
	AuditDBPath  string `yaml:"audit_db_path"`
	JWTSecret    string `yaml:"jwt_secret"`
	LogJSON      bool   `yaml:"log_json"`
	LogDebug     bool   `yaml:"log_debug"`
	EnablePprof  bool   `yaml:"pprof"`
}

// LoadServiceConfig reads and parses a YAML service configuration file.
func LoadServiceConfig(path string) (*ServiceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	var cfg ServiceConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("could not parse config file %s: %w", path, err)
	}

	return &cfg, nil
}
