package domain

import "time"

// PasswordEntry is one retained password hash.
type PasswordEntry struct {
	Hash      string
	ChangedAt time.Time
}

// PasswordHistory holds the most recent password hashes, oldest first.
// Values are never mutated in place; Append returns a fresh slice.
type PasswordHistory []PasswordEntry

// Append returns a new history with e added at the end, keeping at most
// capacity entries by dropping the oldest.
func (h PasswordHistory) Append(e PasswordEntry, capacity int) PasswordHistory {
	if capacity <= 0 {
		return PasswordHistory{}
	}

	start := max(len(h)+1-capacity, 0)
	out := make(PasswordHistory, 0, len(h)-start+1)
	out = append(out, h[start:]...)
	return append(out, e)
}

// Hashes returns the retained hashes, oldest first.
func (h PasswordHistory) Hashes() []string {
	hashes := make([]string, len(h))
	for i, e := range h {
		hashes[i] = e.Hash
	}
	return hashes
}
