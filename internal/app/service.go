// Package app holds the notebook lifecycle logic. Pure composition of
// ports: no HTTP, no subprocesses, no cluster types here.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"helm.sh/helm/v3/pkg/chartutil"

	"github.com/sufield/nok/internal/domain"
	"github.com/sufield/nok/internal/ports"
)

// NotebookService implements the user-facing lifecycle verbs. The cluster is
// the only durable store: every operation re-queries it and the service
// keeps no cross-request state.
type NotebookService struct {
	releases ports.ReleaseCatalog
	cluster  ports.ClusterViews
	log      *slog.Logger
}

// NewNotebookService wires the service to its outbound ports.
func NewNotebookService(releases ports.ReleaseCatalog, cluster ports.ClusterViews, log *slog.Logger) *NotebookService {
	return &NotebookService{releases: releases, cluster: cluster, log: log}
}

// List returns the reconciled notebooks owned by id. A reconciliation
// failure for one notebook is attached to that notebook's Errors field;
// partial results are always returned.
func (s *NotebookService) List(ctx context.Context, cred domain.Credential, id domain.Identity) ([]domain.Notebook, error) {
	releases, err := s.releases.List(ctx, cred, domain.ListPattern(id))
	if err != nil {
		return nil, fmt.Errorf("could not list notebooks: %w", err)
	}

	notebooks := make([]domain.Notebook, 0, len(releases))
	for _, release := range releases {
		notebook, err := s.reconcile(ctx, cred, domain.ResourceName(release.Name))
		if err != nil {
			notebook.Errors = fmt.Sprintf("could not fetch info about notebook: %v", err)
			s.log.Warn("notebook reconciliation failed",
				"notebook", release.Name, "error", err)
		}
		notebooks = append(notebooks, notebook)
	}
	return notebooks, nil
}

// Create composes and validates the resource name, rejects duplicates, and
// installs the notebook chart. A non-empty configText is parsed as a Helm
// values document; parse failure is a BadRequest before anything runs.
func (s *NotebookService) Create(ctx context.Context, cred domain.Credential, id domain.Identity, userName, configText string) (domain.ResourceName, error) {
	name, err := domain.NewNotebookName(id, userName)
	if err != nil {
		return "", err
	}

	exists, err := s.releases.Exists(ctx, cred, name)
	if err != nil {
		return "", err
	}
	if exists {
		return "", fmt.Errorf("%w: notebook %q", domain.ErrConflict, name)
	}

	var values map[string]interface{}
	if configText != "" {
		parsed, err := chartutil.ReadValues([]byte(configText))
		if err != nil {
			return "", fmt.Errorf("%w: configuration override is not valid values yaml: %v", domain.ErrBadRequest, err)
		}
		values = parsed
	}

	if err := s.releases.Install(ctx, cred, name, values); err != nil {
		return "", err
	}
	s.log.Info("notebook created", "notebook", string(name))
	return name, nil
}

// Delete uninstalls an existing notebook.
func (s *NotebookService) Delete(ctx context.Context, cred domain.Credential, name domain.ResourceName) error {
	if err := s.RequireExists(ctx, cred, name); err != nil {
		return err
	}
	if err := s.releases.Uninstall(ctx, cred, name); err != nil {
		return err
	}
	s.log.Info("notebook deleted", "notebook", string(name))
	return nil
}

// Scale pauses (0) or resumes (1) an existing notebook. Any other replica
// count is rejected before a single orchestration call is issued.
func (s *NotebookService) Scale(ctx context.Context, cred domain.Credential, name domain.ResourceName, replicas int) error {
	if replicas != 0 && replicas != 1 {
		return fmt.Errorf("%w: replicas must be 0 or 1, got %d", domain.ErrBadRequest, replicas)
	}
	if err := s.RequireExists(ctx, cred, name); err != nil {
		return err
	}
	return s.cluster.Scale(ctx, cred, name, replicas)
}

// Events returns the aggregated event report for an existing notebook.
func (s *NotebookService) Events(ctx context.Context, cred domain.Credential, name domain.ResourceName) (string, error) {
	if err := s.RequireExists(ctx, cred, name); err != nil {
		return "", err
	}
	return s.aggregateEvents(ctx, cred, name)
}

// RequireExists fails with NotFound unless exactly one release backs name.
func (s *NotebookService) RequireExists(ctx context.Context, cred domain.Credential, name domain.ResourceName) error {
	exists, err := s.releases.Exists(ctx, cred, name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: notebook %q", domain.ErrNotFound, name)
	}
	return nil
}
