package catalog

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/playwave/tunequiz/internal/database"
	"github.com/playwave/tunequiz/internal/migrations"
)

func TestSeedAndLoad(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	if err := Seed(ctx, logger, db); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	// Idempotent: a second seed must not duplicate rows.
	if err := Seed(ctx, logger, db); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	c, err := Load(ctx, db)
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}
	if c.Len() != len(seedSongs) {
		t.Fatalf("catalog has %d songs, want %d", c.Len(), len(seedSongs))
	}

	songs, err := c.Sample(c.Len())
	if err != nil {
		t.Fatalf("sample: %v", err)
	}

	var found bool
	for _, s := range songs {
		if s.Title == "Bohemian Rhapsody" && s.Artist == "Queen" {
			found = true
			if s.MediaRef == "" {
				t.Error("seeded song has empty media ref")
			}
			if s.StartOffset <= 0 {
				t.Error("seeded song has no start offset")
			}
		}
	}
	if !found {
		t.Fatal("seeded catalog missing Bohemian Rhapsody")
	}
}
