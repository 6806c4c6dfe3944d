// Package cli runs the two orchestration binaries (kubectl and helm) as
// subprocesses. It is the single choke point for every cluster query and
// mutation: no other package talks to the cluster.
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/sufield/nok/internal/config"
	"github.com/sufield/nok/internal/domain"
	"github.com/sufield/nok/internal/ports"
)

// inClusterCA is where the service account CA lives inside a pod. kubectl
// forgets about it when --token is passed explicitly, so it is re-supplied
// whenever an API server override is configured.
const inClusterCA = "/var/run/secrets/kubernetes.io/serviceaccount/ca.crt"

// Runner executes one orchestration binary with a hard timeout, capturing
// stdout and stderr separately. The namespace and credential flags are
// appended to every invocation.
type Runner struct {
	path    string
	timeout time.Duration
	tail    func(cred domain.Credential) []string
	log     *slog.Logger
}

var _ ports.CommandRunner = (*Runner)(nil)

// NewKubectl builds the runner for the cluster-object tool.
func NewKubectl(cfg config.Config, log *slog.Logger) *Runner {
	return &Runner{
		path:    cfg.KubectlPath,
		timeout: cfg.Timeout(),
		log:     log.With("tool", cfg.KubectlPath),
		tail: func(cred domain.Credential) []string {
			var flags []string
			if cfg.KubeAPIServer != "" {
				flags = append(flags, "--server", cfg.KubeAPIServer, "--certificate-authority", inClusterCA)
			}
			if cfg.TLSServerName != "" {
				flags = append(flags, "--tls-server-name", cfg.TLSServerName)
			}
			return append(flags, "--namespace", cfg.Namespace, "--token", string(cred))
		},
	}
}

// NewHelm builds the runner for the package-release tool.
func NewHelm(cfg config.Config, log *slog.Logger) *Runner {
	return &Runner{
		path:    cfg.HelmPath,
		timeout: cfg.Timeout(),
		log:     log.With("tool", cfg.HelmPath),
		tail: func(cred domain.Credential) []string {
			var flags []string
			if cfg.KubeAPIServer != "" {
				flags = append(flags, "--kube-apiserver", cfg.KubeAPIServer, "--kube-ca-file", inClusterCA)
			}
			if cfg.TLSServerName != "" {
				flags = append(flags, "--kube-tls-server-name", cfg.TLSServerName)
			}
			return append(flags, "--namespace", cfg.Namespace, "--kube-token", string(cred))
		},
	}
}

// Run executes the tool with args plus the always-appended flags and returns
// captured stdout verbatim. Only the caller-provided args are logged; the
// appended tail carries the credential.
func (r *Runner) Run(ctx context.Context, cred domain.Credential, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	full := make([]string, 0, len(args)+8)
	full = append(full, args...)
	full = append(full, r.tail(cred)...)

	cmd := exec.CommandContext(ctx, r.path, full...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.log.Debug("running orchestration command", "args", strings.Join(args, " "))
	err := cmd.Run()

	switch {
	case err == nil:
		return stdout.String(), nil
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "", fmt.Errorf("%w: %s %s after %s: %s",
			ports.ErrCommandTimeout, r.path, strings.Join(args, " "), r.timeout, diagnostic(&stderr))
	case errors.Is(err, exec.ErrNotFound):
		return "", fmt.Errorf("%w: %v", ports.ErrToolUnavailable, err)
	default:
		return "", fmt.Errorf("%w: %s %s: %v: %s",
			ports.ErrCommandFailed, r.path, strings.Join(args, " "), err, diagnostic(&stderr))
	}
}

func diagnostic(stderr *bytes.Buffer) string {
	return strings.TrimSpace(stderr.String())
}
