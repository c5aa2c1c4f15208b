package engine

import "github.com/eungjin-cigro/cursorflow-sub004/internal/models"

// entryRing is a fixed-capacity ring of buffered entries. Appending
// beyond capacity evicts the oldest entry by index arithmetic; nothing
// is ever shifted.
type entryRing struct {
	buf  []models.BufferedLogEntry
	head int // index of the oldest entry
	size int
}

func newEntryRing(capacity int) *entryRing {
	if capacity <= 0 {
		capacity = 1
	}
	return &entryRing{buf: make([]models.BufferedLogEntry, capacity)}
}

func (r *entryRing) append(e models.BufferedLogEntry) {
	if r.size < len(r.buf) {
		r.buf[(r.head+r.size)%len(r.buf)] = e
		r.size++
		return
	}
	// Full: overwrite the oldest slot and advance.
	r.buf[r.head] = e
	r.head = (r.head + 1) % len(r.buf)
}

func (r *entryRing) len() int {
	return r.size
}

// at returns the i-th entry in insertion order, oldest first.
func (r *entryRing) at(i int) models.BufferedLogEntry {
	return r.buf[(r.head+i)%len(r.buf)]
}

// snapshot copies all entries in insertion order.
func (r *entryRing) snapshot() []models.BufferedLogEntry {
	out := make([]models.BufferedLogEntry, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.at(i)
	}
	return out
}

func (r *entryRing) clear() {
	r.head = 0
	r.size = 0
}
