// Package helm drives the package-release tool and turns its structured
// output into domain values.
package helm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"helm.sh/helm/v3/pkg/chartutil"

	"github.com/sufield/nok/internal/domain"
	"github.com/sufield/nok/internal/ports"
)

// Catalog implements ports.ReleaseCatalog over a helm CommandRunner.
type Catalog struct {
	run       ports.CommandRunner
	chartPath string
	log       *slog.Logger
}

var _ ports.ReleaseCatalog = (*Catalog)(nil)

// NewCatalog builds a catalog installing releases from chartPath.
func NewCatalog(run ports.CommandRunner, chartPath string, log *slog.Logger) *Catalog {
	return &Catalog{run: run, chartPath: chartPath, log: log}
}

// releaseElement is one entry of `helm list --output json`.
type releaseElement struct {
	Name  string `json:"name"`
	Chart string `json:"chart"`
}

func (c *Catalog) list(ctx context.Context, cred domain.Credential, pattern string) ([]releaseElement, error) {
	out, err := c.run.Run(ctx, cred, "list", "--filter", pattern, "--all", "--output", "json")
	if err != nil {
		return nil, err
	}
	var elements []releaseElement
	if err := json.Unmarshal([]byte(out), &elements); err != nil {
		return nil, fmt.Errorf("failed to parse release listing: %w", err)
	}
	return elements, nil
}

// List returns the in-family releases matching the anchored pattern.
// Releases deploying a chart outside the notebook family are logged and
// dropped.
func (c *Catalog) List(ctx context.Context, cred domain.Credential, pattern string) ([]domain.Release, error) {
	elements, err := c.list(ctx, cred, pattern)
	if err != nil {
		return nil, err
	}
	releases := make([]domain.Release, 0, len(elements))
	for _, e := range elements {
		release := domain.Release{Name: e.Name, Chart: e.Chart}
		if !release.IsNotebook() {
			c.log.Warn("ignoring release outside the notebook chart family",
				"release", release.Name, "chart", release.Chart)
			continue
		}
		releases = append(releases, release)
	}
	return releases, nil
}

// Exists reports whether exactly one release matches name. Zero matches and
// unexpectedly many are both treated as non-existence; the ambiguous case is
// logged.
func (c *Catalog) Exists(ctx context.Context, cred domain.Credential, name domain.ResourceName) (bool, error) {
	elements, err := c.list(ctx, cred, name.ExactPattern())
	if err != nil {
		return false, fmt.Errorf("could not check if notebook %q exists: %w", name, err)
	}
	if len(elements) > 1 {
		c.log.Warn("exact release filter matched more than one entry, treating as absent",
			"name", string(name), "matches", len(elements))
	}
	return len(elements) == 1, nil
}

// Install deploys the notebook chart under name. A non-nil values override
// is written to a temporary values file which is removed on every exit path.
func (c *Catalog) Install(ctx context.Context, cred domain.Credential, name domain.ResourceName, values map[string]interface{}) error {
	args := []string{"install", string(name), c.chartPath}

	if values != nil {
		valuesFile, err := c.writeValues(values)
		if err != nil {
			return err
		}
		defer func() {
			if err := os.Remove(valuesFile); err != nil {
				c.log.Warn("could not remove temporary values file", "path", valuesFile, "error", err)
			}
		}()
		args = append(args, "--values", valuesFile)
	}

	if _, err := c.run.Run(ctx, cred, args...); err != nil {
		return fmt.Errorf("could not deploy notebook %q: %w", name, err)
	}
	return nil
}

// Uninstall removes the release under name.
func (c *Catalog) Uninstall(ctx context.Context, cred domain.Credential, name domain.ResourceName) error {
	if _, err := c.run.Run(ctx, cred, "uninstall", string(name)); err != nil {
		return fmt.Errorf("could not delete notebook %q: %w", name, err)
	}
	return nil
}

func (c *Catalog) writeValues(values map[string]interface{}) (string, error) {
	data, err := chartutil.Values(values).YAML()
	if err != nil {
		return "", fmt.Errorf("could not serialize values override: %w", err)
	}
	f, err := os.CreateTemp("", "nok-values-*.yaml")
	if err != nil {
		return "", fmt.Errorf("could not create temporary values file: %w", err)
	}
	if _, err := f.WriteString(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("could not write temporary values file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("could not write temporary values file: %w", err)
	}
	return f.Name(), nil
}
