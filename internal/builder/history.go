package builder

import "github.com/lawnchairsociety/delvegen/internal/world"

// DefaultHistoryCap is the snapshot capacity used when none is given
const DefaultHistoryCap = 200

// History is a bounded ring of map snapshots; the oldest are evicted first
type History struct {
	cap   int
	snaps []*world.Map
	next  int
	full  bool
}

// NewHistory creates a history holding at most capacity snapshots
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCap
	}
	return &History{cap: capacity, snaps: make([]*world.Map, 0, capacity)}
}

// Add records a snapshot
func (h *History) Add(m *world.Map) {
	if len(h.snaps) < h.cap {
		h.snaps = append(h.snaps, m)
		return
	}
	h.snaps[h.next] = m
	h.next = (h.next + 1) % h.cap
	h.full = true
}

// Len returns how many snapshots are held
func (h *History) Len() int {
	return len(h.snaps)
}

// Snapshots returns the held snapshots from oldest to newest
func (h *History) Snapshots() []*world.Map {
	out := make([]*world.Map, 0, len(h.snaps))
	if !h.full {
		return append(out, h.snaps...)
	}
	out = append(out, h.snaps[h.next:]...)
	return append(out, h.snaps[:h.next]...)
}
