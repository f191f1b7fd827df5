package standing

import "sort"

// Table answers "how did the league stand at matchday N" over an accumulated
// standings sequence. It is read-only after construction.
type Table struct {
	byTeam    map[string][]Row
	teams     []string
	matchdays []int
}

func NewTable(rows []Row) *Table {
	byTeam := make(map[string][]Row)
	matchdaySet := make(map[int]struct{})
	for _, row := range rows {
		byTeam[row.Team] = append(byTeam[row.Team], row)
		matchdaySet[row.Matchday] = struct{}{}
	}

	teams := make([]string, 0, len(byTeam))
	for team, items := range byTeam {
		sort.SliceStable(items, func(i, j int) bool { return items[i].Matchday < items[j].Matchday })
		byTeam[team] = items
		teams = append(teams, team)
	}
	sort.Strings(teams)

	matchdays := make([]int, 0, len(matchdaySet))
	for md := range matchdaySet {
		matchdays = append(matchdays, md)
	}
	sort.Ints(matchdays)

	return &Table{byTeam: byTeam, teams: teams, matchdays: matchdays}
}

func (t *Table) Teams() []string {
	return append([]string(nil), t.teams...)
}

func (t *Table) Matchdays() []int {
	return append([]int(nil), t.matchdays...)
}

// AsOf returns the team's row with the greatest matchday <= matchday, or the
// zero state when the team had not played by then.
func (t *Table) AsOf(team string, matchday int) Row {
	return t.latest(team, matchday+1)
}

// Before returns the team's state strictly before matchday, which excludes
// the result of any match played on matchday itself.
func (t *Table) Before(team string, matchday int) Row {
	return t.latest(team, matchday)
}

func (t *Table) latest(team string, bound int) Row {
	items := t.byTeam[team]
	idx := sort.Search(len(items), func(i int) bool { return items[i].Matchday >= bound })
	if idx == 0 {
		zero := Row{Team: team}
		if len(items) > 0 {
			zero.Competition = items[0].Competition
			zero.Season = items[0].Season
		}
		return zero
	}
	return items[idx-1]
}

// After returns every known team's state after matchday, ranked by Less with
// Position filled in from 1.
func (t *Table) After(matchday int) []Row {
	out := make([]Row, 0, len(t.teams))
	for _, team := range t.teams {
		out = append(out, t.AsOf(team, matchday))
	}
	sort.SliceStable(out, func(i, j int) bool { return Less(out[i], out[j]) })
	for idx := range out {
		out[idx].Position = idx + 1
	}
	return out
}
