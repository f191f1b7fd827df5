package temporal

import (
	"fmt"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

var ErrAggregationInvariant = crerr.New("aggregation invariant violated")

// AggregationInvariantError means the number of first-appearance rows does
// not equal the number of distinct teams. Features built on such input would
// be wrong, so the build stops.
type AggregationInvariantError struct {
	Expected int
	Got      int
	Teams    []string
}

func (e *AggregationInvariantError) Error() string {
	msg := fmt.Sprintf("aggregation invariant violated: zero-elapsed rows=%d distinct teams=%d", e.Got, e.Expected)
	if len(e.Teams) > 0 {
		msg += " offending teams=" + strings.Join(e.Teams, ",")
	}
	return msg
}

func (e *AggregationInvariantError) Unwrap() error {
	return ErrAggregationInvariant
}
