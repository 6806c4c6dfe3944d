package config

import "time"

// Config holds the process configuration. Values come from an optional yaml
// file, overridden by NOK_* environment variables; every field has a
// documented default so a bare `nok serve` works inside a cluster.
type Config struct {
	// ListenAddr is the HTTP listen address.
	ListenAddr string `yaml:"listen_addr"`

	// Namespace is the single namespace all notebooks live in.
	Namespace string `yaml:"namespace"`

	// KubeAPIServer, when set, is passed to kubectl as --server and to helm
	// as --kube-apiserver, together with the in-cluster CA file. Used when
	// requests must go through an OIDC proxy; should be a name the API
	// server certificate was signed for.
	KubeAPIServer string `yaml:"kube_apiserver"`

	// TLSServerName, when set, is passed as --tls-server-name /
	// --kube-tls-server-name.
	TLSServerName string `yaml:"kube_tls_server_name"`

	// ClusterName is the external DNS name notebooks are reachable under.
	// When empty the connect redirect is disabled.
	ClusterName string `yaml:"kube_cluster_name"`

	// KubectlPath and HelmPath locate the orchestration binaries. Bare
	// names resolve through PATH.
	KubectlPath string `yaml:"kubectl_path"`
	HelmPath    string `yaml:"helm_path"`

	// ChartPath is the fixed package path installed for every notebook.
	ChartPath string `yaml:"chart_path"`

	// CommandTimeout bounds every orchestration command, in Go duration
	// format ("10m", "1h").
	CommandTimeout string `yaml:"command_timeout"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		ListenAddr:     ":8000",
		Namespace:      "default",
		KubectlPath:    "kubectl",
		HelmPath:       "helm",
		ChartPath:      "helm-chart/jupyter-notebook",
		CommandTimeout: "10m",
		LogLevel:       "info",
	}
}

// Timeout returns the parsed command timeout. Call Validate first; on an
// unparsable value this falls back to the default.
func (c Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.CommandTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Minute
	}
	return d
}
