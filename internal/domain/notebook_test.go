package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/nok/internal/domain"
)

func TestStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      domain.Status
		wantKind    domain.StatusKind
		wantString  string
		wantRunning bool
	}{
		{
			name:       "missing",
			status:     domain.MissingStatus(),
			wantKind:   domain.StatusMissing,
			wantString: "Missing Backing Resource",
		},
		{
			name:       "not running",
			status:     domain.NotRunningStatus(),
			wantKind:   domain.StatusNotRunning,
			wantString: "Not Running",
		},
		{
			name:        "running phase",
			status:      domain.PhaseStatus("Running"),
			wantKind:    domain.StatusPhase,
			wantString:  "Running",
			wantRunning: true,
		},
		{
			name:       "pending phase",
			status:     domain.PhaseStatus("Pending"),
			wantKind:   domain.StatusPhase,
			wantString: "Pending",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantKind, tt.status.Kind())
			assert.Equal(t, tt.wantString, tt.status.String())
			assert.Equal(t, tt.wantRunning, tt.status.Running())
		})
	}
}

func TestNotebookJSON(t *testing.T) {
	t.Parallel()

	notebook := domain.Notebook{
		Name:      "nok-bar-foo",
		Image:     "jupyter/foo:1",
		Status:    domain.PhaseStatus("Running"),
		StartTime: "2023-01-01T00:00:00Z",
	}
	data, err := json.Marshal(notebook)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "nok-bar-foo",
		"image": "jupyter/foo:1",
		"status": "Running",
		"start_time": "2023-01-01T00:00:00Z"
	}`, string(data))
}

func TestReleaseIsNotebook(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		chart string
		want  bool
	}{
		{name: "notebook chart", chart: "jupyter-notebook-0.3.1", want: true},
		{name: "other chart", chart: "postgresql-12.1.0", want: false},
		{name: "family name without version", chart: "jupyter-notebook", want: false},
		{name: "prefix collision", chart: "jupyter-notebooks-fancy-1.0.0", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			release := domain.Release{Name: "nok-bar-foo", Chart: tt.chart}
			assert.Equal(t, tt.want, release.IsNotebook())
		})
	}
}
