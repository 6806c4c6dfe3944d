// Package kubectl drives the cluster-object tool: the authorization probe,
// the controller and instance views, scaling, and event listings.
package kubectl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"

	"github.com/sufield/nok/internal/domain"
	"github.com/sufield/nok/internal/ports"
)

// Client implements ports.Authorizer and ports.ClusterViews over a kubectl
// CommandRunner.
type Client struct {
	run ports.CommandRunner
	log *slog.Logger
}

var (
	_ ports.Authorizer   = (*Client)(nil)
	_ ports.ClusterViews = (*Client)(nil)
)

// NewClient builds the kubectl-backed cluster client.
func NewClient(run ports.CommandRunner, log *slog.Logger) *Client {
	return &Client{run: run, log: log}
}

// Authorize issues the capability probe: can this credential list secrets in
// the notebook namespace? The cluster verifies the credential's signature as
// part of answering; any failure surfaces as Unauthorized with the cluster's
// diagnostic.
func (c *Client) Authorize(ctx context.Context, cred domain.Credential) error {
	if _, err := c.run.Run(ctx, cred, "auth", "can-i", "list", "secret"); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return nil
}

// Controller returns the StatefulSet view backing name, or nil when none
// exists. Assumes at most one match and takes the first.
func (c *Client) Controller(ctx context.Context, cred domain.Credential, name domain.ResourceName) (*domain.ControllerView, error) {
	out, err := c.run.Run(ctx, cred,
		"get", "statefulset", "--selector", name.InstanceSelector(), "--output", "json")
	if err != nil {
		return nil, err
	}
	var list appsv1.StatefulSetList
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		return nil, fmt.Errorf("failed to parse statefulset listing: %w", err)
	}
	if len(list.Items) == 0 {
		return nil, nil
	}
	set := list.Items[0]
	view := &domain.ControllerView{}
	if containers := set.Spec.Template.Spec.Containers; len(containers) > 0 {
		view.Image = containers[0].Image
	}
	return view, nil
}

// Instance returns the pod view backing name, or nil when none exists.
// Assumes at most one match and takes the first.
func (c *Client) Instance(ctx context.Context, cred domain.Credential, name domain.ResourceName) (*domain.InstanceView, error) {
	out, err := c.run.Run(ctx, cred,
		"get", "pod", "--selector", name.InstanceSelector(), "--output", "json")
	if err != nil {
		return nil, err
	}
	var list corev1.PodList
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		return nil, fmt.Errorf("failed to parse pod listing: %w", err)
	}
	if len(list.Items) == 0 {
		return nil, nil
	}
	pod := list.Items[0]
	view := &domain.InstanceView{Phase: string(pod.Status.Phase)}
	if containers := pod.Spec.Containers; len(containers) > 0 {
		view.Image = containers[0].Image
	}
	if pod.Status.StartTime != nil {
		view.StartTime = pod.Status.StartTime.UTC().Format(time.RFC3339)
	}
	return view, nil
}

// Scale sets the replica count of the StatefulSet backing name.
func (c *Client) Scale(ctx context.Context, cred domain.Credential, name domain.ResourceName, replicas int) error {
	_, err := c.run.Run(ctx, cred,
		"scale", "statefulset", "--selector", name.InstanceSelector(),
		"--replicas", strconv.Itoa(replicas))
	if err != nil {
		return fmt.Errorf("could not scale notebook %q: %w", name, err)
	}
	return nil
}

// Events returns the raw event listing for one object name, possibly empty.
func (c *Client) Events(ctx context.Context, cred domain.Credential, object string) (string, error) {
	return c.run.Run(ctx, cred,
		"get", "events", "--field-selector", "involvedObject.name="+object)
}
