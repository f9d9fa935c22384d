package quiz

import (
	"sync"
	"sync/atomic"

	"github.com/playwave/tunequiz/internal/tunequiz"
)

// RoundLedger holds per-round scoring state with first-writer-wins
// semantics. Each (round, category) slot is an independent compare-and-swap,
// so guesses for different categories or rounds never contend.
type RoundLedger struct {
	mu     sync.Mutex // guards growth of rounds only
	rounds map[int]*roundEntry
}

type roundEntry struct {
	title  atomic.Pointer[tunequiz.Participant]
	artist atomic.Pointer[tunequiz.Participant]
	done   atomic.Bool
}

func NewRoundLedger() *RoundLedger {
	return &RoundLedger{rounds: make(map[int]*roundEntry)}
}

func (l *RoundLedger) entry(index int) *roundEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.rounds[index]
	if !ok {
		e = &roundEntry{}
		l.rounds[index] = e
	}
	return e
}

// RecordIfFirst credits participant with the category of the given round if
// nobody holds it yet. Exactly one concurrent caller per (round, category)
// observes true; every other caller, concurrent or later, observes false.
func (l *RoundLedger) RecordIfFirst(index int, category tunequiz.Category, p tunequiz.Participant) bool {
	e := l.entry(index)

	winner := p
	switch category {
	case tunequiz.CategoryArtist:
		return e.artist.CompareAndSwap(nil, &winner)
	default:
		return e.title.CompareAndSwap(nil, &winner)
	}
}

// CompleteOnce reports true exactly once per round: on the first call made
// after both categories have been won. Used to announce completion without
// duplicating the message when both winners land near-simultaneously.
func (l *RoundLedger) CompleteOnce(index int) bool {
	e := l.entry(index)
	if e.title.Load() == nil || e.artist.Load() == nil {
		return false
	}
	return e.done.CompareAndSwap(false, true)
}

// Snapshot returns the current, possibly incomplete, state of a round.
// Safe to call at any time, including after the round has closed. Rounds
// never touched report no winners.
func (l *RoundLedger) Snapshot(index int) tunequiz.Round {
	e := l.entry(index)

	r := tunequiz.Round{Index: index}
	if p := e.title.Load(); p != nil {
		winner := *p
		r.TitleWonBy = &winner
	}
	if p := e.artist.Load(); p != nil {
		winner := *p
		r.ArtistWonBy = &winner
	}
	return r
}
