package config

import (
	"fmt"
	"time"

	"github.com/sufield/nok/internal/domain"
)

// maxNamespaceLength is the Kubernetes bound for namespace names.
const maxNamespaceLength = 63

// Validate checks the configuration for values that would only fail later,
// deep inside an orchestration call.
func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	if _, err := domain.ValidName(c.Namespace, maxNamespaceLength); err != nil {
		return fmt.Errorf("namespace: %w", err)
	}
	if c.KubectlPath == "" || c.HelmPath == "" {
		return fmt.Errorf("kubectl_path and helm_path must not be empty")
	}
	if c.ChartPath == "" {
		return fmt.Errorf("chart_path must not be empty")
	}
	d, err := time.ParseDuration(c.CommandTimeout)
	if err != nil {
		return fmt.Errorf("command_timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("command_timeout must be positive, got %s", d)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error; got %q", c.LogLevel)
	}
	return nil
}
