package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

type seedSong struct {
	title    string
	artist   string
	genre    string
	offset   int
	mediaRef string
}

var seedSongs = []seedSong{
	{"Bohemian Rhapsody", "Queen", "Rock", 60, "fJ9rUzIMcZQ"},
	{"Billie Jean", "Michael Jackson", "Pop", 30, "Zi_XLOBDo_Y"},
	{"Smells Like Teen Spirit", "Nirvana", "Grunge", 25, "hTWKbfoikeg"},
	{"Rolling in the Deep", "Adele", "Pop", 15, "rYEDA3JcQqw"},
	{"Hotel California", "Eagles", "Classic Rock", 70, "09839DpTctU"},
	{"Superstition", "Stevie Wonder", "Funk", 10, "0CFuCYNx-1g"},
	{"Take Five", "The Dave Brubeck Quartet", "Jazz", 20, "vmDDOFXSgAs"},
	{"No Woman No Cry", "Bob Marley", "Reggae", 40, "IT8XvzIfi4U"},
	{"Seven Nation Army", "The White Stripes", "Indie Rock", 5, "0J2QdDbelmY"},
	{"Lose Yourself", "Eminem", "Hip-Hop/Rap", 30, "_Yhyp-_hX2s"},
}

// Seed inserts the demo songs if the catalog is empty.
// Idempotent: does nothing when songs already exist.
func Seed(ctx context.Context, logger *slog.Logger, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM songs`).Scan(&count); err != nil {
		return fmt.Errorf("counting songs: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, s := range seedSongs {
		_, err := db.ExecContext(ctx, `
			INSERT INTO songs (id, title, artist, genre, start_offset_seconds, media_ref)
			VALUES (?, ?, ?, ?, ?, ?)
		`, uuid.NewString(), s.title, s.artist, s.genre, s.offset, s.mediaRef)
		if err != nil {
			return fmt.Errorf("inserting song %q: %w", s.title, err)
		}
	}

	logger.Info("seeded demo song catalog", "songs", len(seedSongs))
	return nil
}
