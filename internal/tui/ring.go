package tui

// entryRing is a circular buffer of entries. The model owns it from the
// bubbletea goroutine only, so it carries no lock.
type entryRing struct {
	buffer []Entry
	size   int
	head   int
	count  int
}

func newEntryRing(size int) *entryRing {
	if size <= 0 {
		size = MaxEntries
	}
	return &entryRing{
		buffer: make([]Entry, size),
		size:   size,
	}
}

// Push adds an entry, overwriting the oldest one when full. The
// overwritten entry is returned with ok set.
func (r *entryRing) Push(e Entry) (evicted Entry, ok bool) {
	if r.count == r.size {
		evicted, ok = r.buffer[r.head], true
	}
	r.buffer[r.head] = e
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
	return evicted, ok
}

// All returns all entries in order (oldest first)
func (r *entryRing) All() []Entry {
	result := make([]Entry, r.count)
	if r.count < r.size {
		copy(result, r.buffer[:r.count])
	} else {
		copy(result, r.buffer[r.head:])
		copy(result[r.size-r.head:], r.buffer[:r.head])
	}
	return result
}

// Len returns the number of stored entries
func (r *entryRing) Len() int { return r.count }

// Clear empties the buffer
func (r *entryRing) Clear() {
	r.head = 0
	r.count = 0
	clear(r.buffer)
}
