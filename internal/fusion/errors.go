package fusion

import (
	"fmt"
	"strings"

	"github.com/ppiankov/legalens/internal/model"
)

// AllProvidersFailedError means no provider produced a usable report
type AllProvidersFailedError struct {
	Failures []model.ProviderFailure
}

func (e *AllProvidersFailedError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Provider, f.Reason))
	}
	return fmt.Sprintf("all %d providers failed (%s)", len(e.Failures), strings.Join(parts, "; "))
}

// Providers lists the failed provider ids in dispatch order
func (e *AllProvidersFailedError) Providers() []model.ProviderID {
	ids := make([]model.ProviderID, 0, len(e.Failures))
	for _, f := range e.Failures {
		ids = append(ids, f.Provider)
	}
	return ids
}
