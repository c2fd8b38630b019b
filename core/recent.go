package core

import "pkt.systems/tabsession/schema"

func pushRecentlyClosed(entries []*schema.RecentlyClosedEntry, entry *schema.RecentlyClosedEntry, max int) []*schema.RecentlyClosedEntry {
	if max <= 0 {
		max = schema.RecentlyClosedMax
	}
	n := len(entries) + 1
	if n > max {
		n = max
	}
	out := make([]*schema.RecentlyClosedEntry, 0, n)
	out = append(out, entry)
	for _, existing := range entries {
		if len(out) == n {
			break
		}
		out = append(out, existing)
	}
	return out
}

func indexOfEntry(entries []*schema.RecentlyClosedEntry, entry *schema.RecentlyClosedEntry) int {
	for i, existing := range entries {
		if existing == entry {
			return i
		}
	}
	return -1
}

func removeEntryAt(entries []*schema.RecentlyClosedEntry, pos int) []*schema.RecentlyClosedEntry {
	out := make([]*schema.RecentlyClosedEntry, 0, len(entries)-1)
	out = append(out, entries[:pos]...)
	return append(out, entries[pos+1:]...)
}
