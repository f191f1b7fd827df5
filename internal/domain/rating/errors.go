package rating

import (
	"fmt"

	crerr "github.com/cockroachdb/errors"
)

var ErrNoMatchFound = crerr.New("no roster match found")

type NoMatchFoundError struct {
	Query     string
	BestScore float64
	Threshold float64
}

func (e *NoMatchFoundError) Error() string {
	return fmt.Sprintf("no roster match for %q: best score %.3f below %.3f", e.Query, e.BestScore, e.Threshold)
}

func (e *NoMatchFoundError) Unwrap() error {
	return ErrNoMatchFound
}
