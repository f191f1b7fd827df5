package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/matchday-features/internal/domain/feature"
	"github.com/valyala/bytebufferpool"
)

type Format string

const (
	FormatCSV       Format = "csv"
	FormatJSONLines Format = "jsonl"
)

const timestampLayout = time.RFC3339

var ErrUnknownFormat = crerr.New("unknown export format")

func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "csv":
		return FormatCSV, nil
	case "jsonl", "ndjson", "jsonlines":
		return FormatJSONLines, nil
	default:
		return "", crerr.Wrapf(ErrUnknownFormat, "format=%q", raw)
	}
}

// Write renders vectors in the fixed column order of feature.Columns.
func Write(w io.Writer, format Format, vectors []feature.Vector) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, vectors)
	case FormatJSONLines:
		return WriteJSONLines(w, vectors)
	default:
		return crerr.Wrapf(ErrUnknownFormat, "format=%q", format)
	}
}

// WriteCSV writes a header row followed by one record per vector.
func WriteCSV(w io.Writer, vectors []feature.Vector) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	cw := csv.NewWriter(buf)
	if err := cw.Write(feature.ColumnNames()); err != nil {
		return crerr.Wrap(err, "write csv header")
	}

	record := make([]string, len(feature.Columns))
	for i, v := range vectors {
		values, err := v.Values()
		if err != nil {
			return crerr.Wrapf(err, "flatten vector %d match_id=%s team=%s", i, v.MatchID, v.Team)
		}
		for col, value := range values {
			record[col] = formatCell(value)
		}
		if err := cw.Write(record); err != nil {
			return crerr.Wrapf(err, "write csv row %d", i)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return crerr.Wrap(err, "flush csv")
	}

	_, err := buf.WriteTo(w)
	return err
}

// WriteJSONLines writes one JSON object per line with keys in column order.
func WriteJSONLines(w io.Writer, vectors []feature.Vector) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	names := feature.ColumnNames()
	for i, v := range vectors {
		values, err := v.Values()
		if err != nil {
			return crerr.Wrapf(err, "flatten vector %d match_id=%s team=%s", i, v.MatchID, v.Team)
		}

		_ = buf.WriteByte('{')
		for col, value := range values {
			if col > 0 {
				_ = buf.WriteByte(',')
			}
			_, _ = buf.WriteString(strconv.Quote(names[col]))
			_ = buf.WriteByte(':')

			if ts, ok := value.(time.Time); ok {
				value = ts.Format(timestampLayout)
			}
			encoded, err := sonic.Marshal(value)
			if err != nil {
				return crerr.Wrapf(err, "encode column %s of row %d", names[col], i)
			}
			_, _ = buf.Write(encoded)
		}
		_, _ = buf.WriteString("}\n")
	}

	_, err := buf.WriteTo(w)
	return err
}

func formatCell(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format(timestampLayout)
	default:
		return fmt.Sprint(v)
	}
}
