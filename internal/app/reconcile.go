package app

import (
	"context"

	"github.com/sufield/nok/internal/domain"
)

// reconcile merges the independently-queried controller and instance views
// into one Notebook. Later steps override earlier ones:
//
//  1. baseline: everything "Missing Backing Resource"
//  2. controller view present: its image, "Not Running"
//  3. instance view present: its phase and image; its start time when
//     reported, otherwise whatever step 2 left
//
// On a query failure the partially-built notebook is returned alongside the
// error so the caller can attach a per-item annotation.
func (s *NotebookService) reconcile(ctx context.Context, cred domain.Credential, name domain.ResourceName) (domain.Notebook, error) {
	notebook := domain.Notebook{
		Name:      name,
		Image:     domain.MissingBackingResource,
		Status:    domain.MissingStatus(),
		StartTime: domain.MissingBackingResource,
	}

	controller, err := s.cluster.Controller(ctx, cred, name)
	if err != nil {
		return notebook, err
	}
	if controller != nil {
		notebook.Image = controller.Image
		notebook.Status = domain.NotRunningStatus()
		notebook.StartTime = domain.NotRunningDisplay
	}

	instance, err := s.cluster.Instance(ctx, cred, name)
	if err != nil {
		return notebook, err
	}
	if instance != nil {
		notebook.Status = domain.PhaseStatus(instance.Phase)
		notebook.Image = instance.Image
		switch {
		case instance.StartTime != "":
			notebook.StartTime = instance.StartTime
		case controller == nil:
			// a running instance without a start time never shows the
			// missing-controller placeholder
			notebook.StartTime = domain.NotRunningDisplay
		}
	}

	return notebook, nil
}
