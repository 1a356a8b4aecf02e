package agent

// trail keeps the most recent entries up to a fixed capacity.
type trail struct {
	entries []string
	size    int
}

func newTrail(size int) *trail {
	return &trail{entries: make([]string, 0, size), size: size}
}

func (t *trail) push(entry string) {
	if len(t.entries) == t.size {
		copy(t.entries, t.entries[1:])
		t.entries = t.entries[:t.size-1]
	}
	t.entries = append(t.entries, entry)
}

// snapshot returns the entries oldest first.
func (t *trail) snapshot() []string {
	out := make([]string, len(t.entries))
	copy(out, t.entries)
	return out
}
