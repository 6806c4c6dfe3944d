package domain

import (
	"encoding/json"
	"strings"
)

const (
	// NotebookChartName is the chart family every notebook release must
	// belong to. Releases deploying other charts are out of scope.
	NotebookChartName = "jupyter-notebook"

	// MissingBackingResource is the display value used when neither the
	// controller object nor a running instance backs a release.
	MissingBackingResource = "Missing Backing Resource"

	// NotRunningDisplay is the display value used when the controller object
	// exists but no instance is running.
	NotRunningDisplay = "Not Running"
)

// StatusKind discriminates the closed set of notebook states.
type StatusKind int

const (
	// StatusMissing means no controller object backs the release.
	StatusMissing StatusKind = iota
	// StatusNotRunning means the controller object exists but no instance runs.
	StatusNotRunning
	// StatusPhase means an instance exists and reported a phase string.
	StatusPhase
)

// Status is the reconciled state of a notebook, modeled as a tagged variant
// so the reconciliation precedence rules stay exhaustive.
type Status struct {
	kind  StatusKind
	phase string
}

// MissingStatus returns the baseline status of a release without any backing
// controller object.
func MissingStatus() Status {
	return Status{kind: StatusMissing}
}

// NotRunningStatus returns the status of a release whose controller object
// exists without a running instance.
func NotRunningStatus() Status {
	return Status{kind: StatusNotRunning}
}

// PhaseStatus returns the status of a running instance reporting phase.
func PhaseStatus(phase string) Status {
	return Status{kind: StatusPhase, phase: phase}
}

// Kind returns the variant tag.
func (s Status) Kind() StatusKind {
	return s.kind
}

// Running reports whether the instance reported the Running phase.
func (s Status) Running() bool {
	return s.kind == StatusPhase && s.phase == "Running"
}

// String returns the caller-facing display value.
func (s Status) String() string {
	switch s.kind {
	case StatusNotRunning:
		return NotRunningDisplay
	case StatusPhase:
		return s.phase
	default:
		return MissingBackingResource
	}
}

// Notebook is the reconciled, caller-facing aggregate for one release.
// Built fresh on every query and never persisted.
type Notebook struct {
	Name      ResourceName `json:"name"`
	Image     string       `json:"image"`
	Status    Status       `json:"status"`
	StartTime string       `json:"start_time"`
	Errors    string       `json:"errors,omitempty"`
}

// MarshalJSON is implemented on Status so Notebook serializes the display
// value rather than the unexported variant fields.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Release is a deployed package instance discovered by the listing query.
type Release struct {
	Name  string
	Chart string
}

// IsNotebook reports whether the release deploys a chart from the notebook
// family, for example "jupyter-notebook-0.3.1".
func (r Release) IsNotebook() bool {
	return strings.HasPrefix(r.Chart, NotebookChartName+"-")
}

// ControllerView is a read-only snapshot of the StatefulSet backing a
// release.
type ControllerView struct {
	Image string
}

// InstanceView is a read-only snapshot of the running pod backing a release,
// if any. StartTime is empty when the instance has not reported one.
type InstanceView struct {
	Phase     string
	Image     string
	StartTime string
}
