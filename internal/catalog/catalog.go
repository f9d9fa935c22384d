// Package catalog loads the song catalog from SQLite at boot and samples
// playlists from it. The catalog is immutable after Load.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/playwave/tunequiz/internal/tunequiz"
)

type Catalog struct {
	songs []tunequiz.Song
}

// New wraps an already-loaded song list. Used by tests and seed tooling.
func New(songs []tunequiz.Song) *Catalog {
	return &Catalog{songs: songs}
}

// Load reads every song row. The returned catalog never touches db again.
func Load(ctx context.Context, db *sql.DB) (*Catalog, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, title, artist, genre, start_offset_seconds, media_ref
		FROM songs
	`)
	if err != nil {
		return nil, fmt.Errorf("querying songs: %w", err)
	}
	defer rows.Close()

	var songs []tunequiz.Song
	for rows.Next() {
		var s tunequiz.Song
		var offset int64
		if err := rows.Scan(&s.ID, &s.Title, &s.Artist, &s.Genre, &offset, &s.MediaRef); err != nil {
			return nil, fmt.Errorf("scanning song: %w", err)
		}
		s.StartOffset = time.Duration(offset) * time.Second
		songs = append(songs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating songs: %w", err)
	}

	return &Catalog{songs: songs}, nil
}

func (c *Catalog) Len() int {
	return len(c.songs)
}

// Sample returns n distinct songs drawn uniformly without replacement.
// n is clamped to the catalog size; the returned order is the play order.
func (c *Catalog) Sample(n int) ([]tunequiz.Song, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: sample size %d", tunequiz.ErrInvalidArgument, n)
	}
	if n > len(c.songs) {
		n = len(c.songs)
	}

	picked := make([]tunequiz.Song, 0, n)
	for _, i := range rand.Perm(len(c.songs))[:n] {
		picked = append(picked, c.songs[i])
	}
	return picked, nil
}
