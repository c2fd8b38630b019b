package core

import (
	"fmt"
	"strings"

	"pkt.systems/tabsession/schema"
)

func newHistoryEntry(id schema.TabID, position int, url, title string, now int64) schema.HistoryEntry {
	return schema.HistoryEntry{
		ID:        fmt.Sprintf("%s-%d-%d", id, now, position),
		URL:       url,
		Title:     title,
		Timestamp: now,
	}
}

// pushHistory truncates forward history past the current index and appends
// entry. The returned slice never aliases history.
func pushHistory(history []schema.HistoryEntry, index int, entry schema.HistoryEntry) ([]schema.HistoryEntry, int) {
	cut := index + 1
	if cut < 0 {
		cut = 0
	}
	if cut > len(history) {
		cut = len(history)
	}
	out := make([]schema.HistoryEntry, cut, cut+1)
	copy(out, history[:cut])
	out = append(out, entry)
	return out, len(out) - 1
}

func retitleHistory(history []schema.HistoryEntry, index int, title string) []schema.HistoryEntry {
	if index < 0 || index >= len(history) || history[index].Title == title {
		return history
	}
	out := append([]schema.HistoryEntry(nil), history...)
	out[index].Title = title
	return out
}

func clampHistoryIndex(index, length int) int {
	if length <= 0 {
		return 0
	}
	if index < 0 || index >= length {
		return length - 1
	}
	return index
}

// pushSuggestion moves value to the front, dropping case-insensitive
// duplicates and anything past max.
func pushSuggestion(entries []string, value string, max int) ([]string, bool) {
	value = schema.NormalizeSuggestion(value)
	if value == "" {
		return entries, false
	}
	if max <= 0 {
		max = schema.SuggestionHistoryMax
	}
	if len(entries) > 0 && entries[0] == value {
		return entries, false
	}
	out := make([]string, 0, len(entries)+1)
	out = append(out, value)
	for _, entry := range entries {
		if strings.EqualFold(entry, value) {
			continue
		}
		out = append(out, entry)
	}
	if len(out) > max {
		out = out[:max]
	}
	return out, true
}
