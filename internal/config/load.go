package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads configuration: defaults, then the yaml file at path (skipped
// when path is empty), then NOK_* environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		cleanPath := filepath.Clean(path)
		data, err := os.ReadFile(cleanPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := []struct {
		env    string
		target *string
	}{
		{"NOK_LISTEN_ADDR", &c.ListenAddr},
		{"NOK_NAMESPACE", &c.Namespace},
		{"NOK_KUBE_APISERVER", &c.KubeAPIServer},
		{"NOK_KUBE_TLS_SERVER_NAME", &c.TLSServerName},
		{"NOK_KUBE_CLUSTER_NAME", &c.ClusterName},
		{"NOK_KUBECTL_PATH", &c.KubectlPath},
		{"NOK_HELM_PATH", &c.HelmPath},
		{"NOK_CHART_PATH", &c.ChartPath},
		{"NOK_COMMAND_TIMEOUT", &c.CommandTimeout},
		{"NOK_LOG_LEVEL", &c.LogLevel},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.env); ok {
			*o.target = v
		}
	}
}
