package match

import (
	"fmt"

	crerr "github.com/cockroachdb/errors"
)

var ErrMalformedRecord = crerr.New("malformed record")

// MalformedRecordError reports a record that failed required-field validation.
type MalformedRecordError struct {
	MatchID string
	Field   string
	Reason  string
}

func NewMalformedRecordError(matchID, field, reason string) *MalformedRecordError {
	return &MalformedRecordError{MatchID: matchID, Field: field, Reason: reason}
}

func (e *MalformedRecordError) Error() string {
	if e.MatchID == "" {
		return fmt.Sprintf("malformed record: field=%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed record match_id=%s: field=%s: %s", e.MatchID, e.Field, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error {
	return ErrMalformedRecord
}

// IsMalformed reports whether err is, or wraps, a malformed record error.
func IsMalformed(err error) bool {
	return crerr.Is(err, ErrMalformedRecord)
}

// ErrDuplicateMatchID marks a second record carrying an already-seen match id.
var ErrDuplicateMatchID = crerr.New("duplicate match id")
