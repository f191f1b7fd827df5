package match

// Reject is one input that a batch operation excluded.
type Reject struct {
	Index   int
	MatchID string
	Err     error
}

// Report accounts for every input of a batch operation.
// Processed + Rejected always equals Total.
type Report struct {
	Total     int
	Processed int
	Rejected  int
	Rejects   []Reject
}

func (r *Report) Accept() {
	r.Total++
	r.Processed++
}

func (r *Report) Reject(index int, matchID string, err error) {
	r.Total++
	r.Rejected++
	r.Rejects = append(r.Rejects, Reject{Index: index, MatchID: matchID, Err: err})
}

func (r *Report) Merge(other Report) {
	r.Total += other.Total
	r.Processed += other.Processed
	r.Rejected += other.Rejected
	r.Rejects = append(r.Rejects, other.Rejects...)
}

func (r Report) Consistent() bool {
	return r.Processed+r.Rejected == r.Total && r.Rejected == len(r.Rejects)
}
