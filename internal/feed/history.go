// MorphoMedia - Healthy Short-Video Feed Ranking
// Copyright 2026 CatInTheRiceHat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/CatInTheRiceHat/MorphoMedia

package feed

// pickHistory records (topic, creator) pairs in selection order. It is
// append-only: the streak guard reads the full tail while the diversity
// scorer reads a bounded window, so both are views over the same sequence
// and can never drift out of sync.
type pickHistory struct {
	topics   []string
	creators []string
}

// record appends one pick. Topics and creators always grow together.
func (h *pickHistory) record(topic, creator string) {
	h.topics = append(h.topics, topic)
	h.creators = append(h.creators, creator)
}

// topicWindow returns the last w topics (all of them if fewer than w).
func (h *pickHistory) topicWindow(w int) []string {
	return tail(h.topics, w)
}

// creatorWindow returns the last w creators (all of them if fewer than w).
func (h *pickHistory) creatorWindow(w int) []string {
	return tail(h.creators, w)
}

func tail(list []string, n int) []string {
	if n >= len(list) {
		return list
	}
	return list[len(list)-n:]
}
