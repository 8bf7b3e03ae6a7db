package tracking

import (
	"net/http"

	"github.com/raosahab/catalog-query/pkg/types"
)

// Tracking receives storefront events. Implementations must not block the
// request path; callers fire them on their own goroutines.
type Tracking interface {
	TrackSession(sessionId string, r *http.Request)
	TrackSearch(sessionId string, state types.QueryState, numberOfResults int, r *http.Request)
	TrackFiltersCleared(sessionId string, r *http.Request)
}
