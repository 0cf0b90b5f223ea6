package question

// HistoryStore maps question identity to the answers previously
// accepted for it during this run. It grows monotonically: entries are
// appended, deduplicated, and never pruned. The store is owned by the
// questionnaire session and handed to controllers at construction; it
// survives session rebuilds untouched.
type HistoryStore struct {
	entries map[string][]string
}

// NewHistoryStore returns an empty store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{entries: make(map[string][]string)}
}

// Add records value under the question identity id. Duplicate values
// and empty values are ignored.
func (h *HistoryStore) Add(id, value string) {
	if value == "" {
		return
	}
	for _, existing := range h.entries[id] {
		if existing == value {
			return
		}
	}
	h.entries[id] = append(h.entries[id], value)
}

// Seed records several values at once, preserving order.
func (h *HistoryStore) Seed(id string, values []string) {
	for _, v := range values {
		h.Add(id, v)
	}
}

// Get returns the recorded answers for id in insertion order. The
// returned slice is a copy.
func (h *HistoryStore) Get(id string) []string {
	return append([]string(nil), h.entries[id]...)
}

// Len returns the number of answers stored for id.
func (h *HistoryStore) Len(id string) int {
	return len(h.entries[id])
}
