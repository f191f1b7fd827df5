// Package normalizer turns vendor match payloads into canonical match records
// through one small adapter per vendor.
package normalizer

import (
	"context"
	"sort"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/matchday-features/internal/domain/lineup"
	"github.com/riskibarqy/matchday-features/internal/domain/match"
	"github.com/riskibarqy/matchday-features/internal/platform/logging"
)

type Vendor string

const (
	VendorFootballData Vendor = "football-data"
	VendorXMLSoccer    Vendor = "xmlsoccer"
)

var (
	ErrUnknownVendor       = crerr.New("unknown vendor")
	ErrLineupsNotSupported = crerr.New("vendor payloads carry no lineups")
)

// Adapter parses one vendor's raw payload into a canonical record. It only
// extracts fields; the Normalizer validates the result.
type Adapter interface {
	Vendor() Vendor
	Normalize(Payload) (match.Record, error)
}

// LineupAdapter is implemented by adapters whose payloads embed lineups.
type LineupAdapter interface {
	Lineups(Payload) ([]lineup.Entry, error)
}

type Normalizer struct {
	adapters map[Vendor]Adapter
	logger   *logging.Logger
}

type Option func(*Normalizer)

func WithLogger(logger *logging.Logger) Option {
	return func(n *Normalizer) {
		n.logger = logger
	}
}

// WithAdapter registers or replaces the adapter for its vendor.
func WithAdapter(adapter Adapter) Option {
	return func(n *Normalizer) {
		n.adapters[adapter.Vendor()] = adapter
	}
}

// New returns a Normalizer with the football-data.org and XMLSoccer adapters.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		adapters: map[Vendor]Adapter{
			VendorFootballData: FootballData{},
			VendorXMLSoccer:    XMLSoccer{},
		},
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.logger = n.logger.Named("normalizer")
	return n
}

func (n *Normalizer) Vendors() []Vendor {
	out := make([]Vendor, 0, len(n.adapters))
	for v := range n.adapters {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Normalize converts one payload. Missing or unparseable goals, kickoff or
// team names yield a *match.MalformedRecordError.
func (n *Normalizer) Normalize(vendor Vendor, payload Payload) (match.Record, error) {
	adapter, ok := n.adapters[vendor]
	if !ok {
		return match.Record{}, crerr.Wrapf(ErrUnknownVendor, "vendor=%s", vendor)
	}

	rec, err := adapter.Normalize(payload)
	if err != nil {
		return match.Record{}, err
	}
	if err := rec.ValidateScored(); err != nil {
		return match.Record{}, err
	}
	return rec, nil
}

// NormalizeBatch converts every payload it can and reports the rest. Only an
// unknown vendor fails the whole batch.
func (n *Normalizer) NormalizeBatch(ctx context.Context, vendor Vendor, payloads []Payload) ([]match.Record, match.Report, error) {
	if _, ok := n.adapters[vendor]; !ok {
		return nil, match.Report{}, crerr.Wrapf(ErrUnknownVendor, "vendor=%s", vendor)
	}

	var report match.Report
	out := make([]match.Record, 0, len(payloads))
	for idx, payload := range payloads {
		rec, err := n.Normalize(vendor, payload)
		if err != nil {
			id, _ := payloadID(payload)
			report.Reject(idx, id, err)
			n.logger.DebugContext(ctx, "payload rejected", "vendor", vendor, "index", idx, "match_id", id, "error", err)
			continue
		}
		out = append(out, rec)
		report.Accept()
	}

	n.logger.InfoContext(ctx, "payloads normalized",
		"vendor", vendor,
		"total", report.Total,
		"processed", report.Processed,
		"rejected", report.Rejected,
	)
	return out, report, nil
}

// Lineups extracts the home and away lineups from each payload.
func (n *Normalizer) Lineups(ctx context.Context, vendor Vendor, payloads []Payload) ([]lineup.Entry, match.Report, error) {
	adapter, ok := n.adapters[vendor]
	if !ok {
		return nil, match.Report{}, crerr.Wrapf(ErrUnknownVendor, "vendor=%s", vendor)
	}
	lineupAdapter, ok := adapter.(LineupAdapter)
	if !ok {
		return nil, match.Report{}, crerr.Wrapf(ErrLineupsNotSupported, "vendor=%s", vendor)
	}

	var report match.Report
	out := make([]lineup.Entry, 0, 2*len(payloads))
	for idx, payload := range payloads {
		entries, err := lineupAdapter.Lineups(payload)
		if err != nil {
			id, _ := payloadID(payload)
			report.Reject(idx, id, err)
			n.logger.DebugContext(ctx, "lineup rejected", "vendor", vendor, "index", idx, "match_id", id, "error", err)
			continue
		}
		out = append(out, entries...)
		report.Accept()
	}
	return out, report, nil
}

func payloadID(p Payload) (string, bool) {
	v, ok := p.First("id", "Id")
	if !ok {
		return "", false
	}
	return coerceString(v)
}
