package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/matchday-features/internal/domain/rating"
)

// Header aliases cover the common FIFA ratings exports.
var (
	nameHeaders    = []string{"name", "long_name", "player", "player_name"}
	clubHeaders    = []string{"club", "club_name", "team"}
	overallHeaders = []string{"overall", "rating", "overall_rating"}
)

var ErrRosterHeader = crerr.New("roster header is missing a required column")

func LoadRosterFile(path string) ([]rating.Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster file: %w", err)
	}
	defer f.Close()

	players, err := LoadRoster(f)
	if err != nil {
		return nil, fmt.Errorf("load roster %s: %w", path, err)
	}
	return players, nil
}

// LoadRoster reads a ratings CSV with name, club and overall columns.
// Rows with a blank name or an unparsable rating are skipped.
func LoadRoster(r io.Reader) ([]rating.Player, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, crerr.Wrap(err, "read roster header")
	}
	nameIdx := headerIndex(header, nameHeaders)
	clubIdx := headerIndex(header, clubHeaders)
	overallIdx := headerIndex(header, overallHeaders)
	if nameIdx < 0 || overallIdx < 0 {
		return nil, crerr.Wrapf(ErrRosterHeader, "header=%v", header)
	}

	var out []rating.Player
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, crerr.Wrapf(err, "read roster line %d", line)
		}

		name := field(record, nameIdx)
		overall, err := strconv.ParseFloat(field(record, overallIdx), 64)
		if name == "" || err != nil {
			continue
		}
		out = append(out, rating.Player{
			Name:    name,
			Club:    field(record, clubIdx),
			Overall: overall,
		})
	}
	return out, nil
}

func headerIndex(header []string, aliases []string) int {
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for _, alias := range aliases {
			if key == alias {
				return i
			}
		}
	}
	return -1
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
