package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("team", "points").
		From("standings").
		Where(Eq("competition", "PL"), Eq("season", "2017-18")).
		OrderBy("matchday", "position").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT team, points FROM standings WHERE competition = $1 AND season = $2 ORDER BY matchday, position"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "PL" || args[1] != "2017-18" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("standings").
		Columns("team", "points").
		Values("Arsenal", 3).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO standings (team, points) VALUES ($1, $2) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "Arsenal" || args[1] != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("standings").
		Where(Eq("competition", "PL"), Eq("season", "2017-18")).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM standings WHERE competition = $1 AND season = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "PL" || args[1] != "2017-18" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := DeleteFrom("standings").ToSQL(); err == nil {
		t.Fatalf("expected unconditional delete to be rejected")
	}
}

func TestInsertModels(t *testing.T) {
	type row struct {
		Team   string `db:"team"`
		Points int    `db:"points"`
		Note   string `db:"-"`
	}

	query, args, err := InsertModels("standings", []row{{Team: "A", Points: 3}, {Team: "B", Points: 0}}, "")
	if err != nil {
		t.Fatalf("build insert models query: %v", err)
	}

	wantQuery := "INSERT INTO standings (team, points) VALUES ($1, $2), ($3, $4)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != "A" || args[3] != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}
