package engine

import (
	"time"

	"github.com/san-kum/glyphswarm/internal/gesture"
)

type deadline struct {
	kind gesture.TimerKind
	gen  uint64
	at   time.Duration
}

// timerTable holds at most one pending deadline per kind. Arming a kind
// replaces its previous deadline.
type timerTable struct {
	pending map[gesture.TimerKind]deadline
}

func newTimerTable() timerTable {
	return timerTable{pending: make(map[gesture.TimerKind]deadline)}
}

func (t *timerTable) arm(kind gesture.TimerKind, gen uint64, at time.Duration) {
	t.pending[kind] = deadline{kind: kind, gen: gen, at: at}
}

func (t *timerTable) cancel(kind gesture.TimerKind) {
	delete(t.pending, kind)
}

func (t *timerTable) len() int { return len(t.pending) }

// next removes and returns the earliest deadline at or before now.
func (t *timerTable) next(now time.Duration) (deadline, bool) {
	if len(t.pending) == 0 {
		return deadline{}, false
	}
	var best deadline
	found := false
	for _, d := range t.pending {
		if d.at > now {
			continue
		}
		if !found || d.at < best.at || (d.at == best.at && d.kind < best.kind) {
			best, found = d, true
		}
	}
	if !found {
		return deadline{}, false
	}
	delete(t.pending, best.kind)
	return best, true
}

func (t *timerTable) clear() {
	for k := range t.pending {
		delete(t.pending, k)
	}
}
