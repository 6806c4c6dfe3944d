package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/sufield/nok/internal/domain"
)

// aggregateEvents fetches cluster events for the notebook's three derived
// object names, in fixed order: the release itself, its single pod, and the
// pod's storage claim. Each fetch gets a header line in the report even when
// it returned nothing. The three queries run strictly sequentially so the
// report order is stable; any failure aborts the whole aggregation.
func (s *NotebookService) aggregateEvents(ctx context.Context, cred domain.Credential, name domain.ResourceName) (string, error) {
	objects := []string{
		string(name),
		name.PodName(),
		name.StorageClaimName(),
	}

	var report strings.Builder
	for _, object := range objects {
		out, err := s.cluster.Events(ctx, cred, object)
		if err != nil {
			return "", fmt.Errorf("could not fetch events for %q: %w", object, err)
		}
		fmt.Fprintf(&report, "=== Events for %s ===\n", object)
		report.WriteString(out)
		if out != "" && !strings.HasSuffix(out, "\n") {
			report.WriteString("\n")
		}
	}
	return report.String(), nil
}
