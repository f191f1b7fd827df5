package normalizer

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
)

// Payload is one raw vendor record decoded into generic maps, e.g. by
// sonic.Unmarshal into map[string]any or by the XMLSoccer element flattener.
type Payload map[string]any

// Lookup walks a dotted path through nested maps.
func (p Payload) Lookup(path string) (any, bool) {
	var current any = map[string]any(p)
	for _, part := range strings.Split(path, ".") {
		node, ok := asMap(current)
		if !ok {
			return nil, false
		}
		current, ok = node[part]
		if !ok {
			return nil, false
		}
	}
	return current, current != nil
}

// First returns the value at the first path that is present.
func (p Payload) First(paths ...string) (any, bool) {
	for _, path := range paths {
		if v, ok := p.Lookup(path); ok {
			return v, true
		}
	}
	return nil, false
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Payload:
		return m, true
	default:
		return nil, false
	}
}

var errNotInteger = crerr.New("not an integer")

// coerceInt accepts integral numbers and numeric strings. Anything else,
// including blanks, fractions and booleans, is an error rather than zero.
func coerceInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, crerr.Wrapf(errNotInteger, "%v", n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, crerr.Wrapf(errNotInteger, "%q", n.String())
		}
		return int(i), nil
	case string:
		s := strings.TrimSpace(n)
		i, err := strconv.Atoi(s)
		if err != nil {
			return 0, crerr.Wrapf(errNotInteger, "%q", n)
		}
		return i, nil
	default:
		return 0, crerr.Wrapf(errNotInteger, "type %T", v)
	}
}

// coerceString renders scalar identifiers, so numeric ids become "233086".
func coerceString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		s = strings.TrimSpace(s)
		return s, s != ""
	case float64:
		if s != math.Trunc(s) {
			return "", false
		}
		return strconv.FormatInt(int64(s), 10), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case json.Number:
		return s.String(), s.String() != ""
	default:
		return "", false
	}
}

var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05Z07:00",
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// parseInstant parses a zone-aware timestamp. When assumeUTC is set, a
// timestamp without an offset is read as UTC; otherwise it is rejected.
func parseInstant(raw string, assumeUTC bool) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, crerr.New("empty timestamp")
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	if assumeUTC {
		for _, layout := range naiveLayouts {
			if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, crerr.Newf("unsupported timestamp %q", raw)
}

var errMissing = crerr.New("is missing")
