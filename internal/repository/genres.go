package repository

import (
	"context"
	"sort"
	"strings"
)

// genreTable names a join table holding the genre set of one owner row.
// Both values are package constants and never come from user input.
type genreTable struct {
	table string // venue_genres | artist_genres
	fk    string // venue_id | artist_id
}

var (
	venueGenres  = genreTable{table: "venue_genres", fk: "venue_id"}
	artistGenres = genreTable{table: "artist_genres", fk: "artist_id"}
)

// load returns the genres of owner id sorted alphabetically.
func (g genreTable) load(ctx context.Context, db DBTX, id uint64) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT genre FROM "+g.table+" WHERE "+g.fk+" = ? ORDER BY genre", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var genre string
		if err := rows.Scan(&genre); err != nil {
			return nil, err
		}
		out = append(out, genre)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// replace overwrites the genre set of owner id.  Duplicates are collapsed so
// the (owner, genre) primary key never rejects a submission.
func (g genreTable) replace(ctx context.Context, db DBTX, id uint64, genres []string) error {
	if _, err := db.ExecContext(ctx, "DELETE FROM "+g.table+" WHERE "+g.fk+" = ?", id); err != nil {
		return err
	}
	set := uniqueGenres(genres)
	if len(set) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(set))
	args := make([]any, 0, 2*len(set))
	for _, genre := range set {
		placeholders = append(placeholders, "(?, ?)")
		args = append(args, id, genre)
	}
	q := "INSERT INTO " + g.table + " (" + g.fk + ", genre) VALUES " + strings.Join(placeholders, ", ")
	_, err := db.ExecContext(ctx, q, args...)
	return err
}

func uniqueGenres(genres []string) []string {
	seen := make(map[string]bool, len(genres))
	out := make([]string, 0, len(genres))
	for _, genre := range genres {
		genre = strings.TrimSpace(genre)
		if genre == "" || seen[genre] {
			continue
		}
		seen[genre] = true
		out = append(out, genre)
	}
	sort.Strings(out)
	return out
}

// likePattern builds a case-insensitive substring pattern for LIKE ... ESCAPE '!'.
// An empty term yields "%%", which matches every row.
func likePattern(term string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}
