package engine

// History is a bounded record of raw submitted commands with a recall
// cursor. Navigation never mutates the entries; only Push does.
type History struct {
	entries []string
	cursor  int // 0..len(entries); len(entries) means "one past the end"
	limit   int
}

func NewHistory(limit int) *History {
	return &History{
		entries: make([]string, 0, limit),
		cursor:  0,
		limit:   limit,
	}
}

// Push records a submitted command, evicting the oldest entry beyond
// the limit, and resets the cursor to one past the end.
func (h *History) Push(raw string) {
	h.entries = append(h.entries, raw)
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
	h.cursor = len(h.entries)
}

// Prev moves the cursor toward the oldest entry and returns the
// recalled command. It reports false when there is nothing older.
func (h *History) Prev() (string, bool) {
	if h.cursor == 0 {
		return "", false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Next moves the cursor toward the newest entry. At one past the end
// it returns an empty string with ok=true exactly once, signalling
// the caller to clear the input field.
func (h *History) Next() (string, bool) {
	if h.cursor >= len(h.entries) {
		return "", false
	}
	h.cursor++
	if h.cursor == len(h.entries) {
		return "", true
	}
	return h.entries[h.cursor], true
}

func (h *History) Len() int { return len(h.entries) }
