package format

import (
	"fmt"
	"strings"
	"time"

	"pkt.systems/tabsession/internal/eventbus"
	"pkt.systems/tabsession/schema"
)

// PlainRenderer formats session events and listings as plain text lines.
type PlainRenderer struct {
	// FailuresOnly drops everything except failed persistence events.
	FailuresOnly bool
}

// NewPlainRenderer returns a default plain-text renderer.
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{}
}

// FormatEvent converts a bus event into user-facing lines.
func (p *PlainRenderer) FormatEvent(event eventbus.Event) []string {
	switch event.Type {
	case eventbus.EventState:
		if p.FailuresOnly {
			return nil
		}
		return []string{formatStateEvent(event.State)}
	case eventbus.EventPersist:
		if p.FailuresOnly && event.Persist.Err == nil {
			return nil
		}
		return []string{formatPersistEvent(event.Persist)}
	default:
		if p.FailuresOnly {
			return nil
		}
		return []string{fmt.Sprintf("event: %s", event.Type)}
	}
}

func formatStateEvent(s schema.StateEvent) string {
	line := fmt.Sprintf("event: %s changed=%t tabs=%d", s.Kind, s.Changed, s.TabCount)
	if s.TabID != "" {
		line += " tab=" + string(s.TabID)
	}
	return line
}

func formatPersistEvent(p schema.PersistEvent) string {
	line := fmt.Sprintf("event: persist %s bytes=%d took=%s", p.Op, p.Bytes, p.Duration.Round(time.Microsecond))
	if p.Op == schema.PersistLoad {
		line += fmt.Sprintf(" found=%t", p.Found)
	}
	if p.Err != nil {
		line += fmt.Sprintf(" err=%v", p.Err)
	}
	return line
}

// TabLabel names a tab by title, or URL when untitled, and id.
func TabLabel(tab schema.Tab) string {
	title := strings.TrimSpace(tab.Title)
	if title == "" {
		title = tab.URL
	}
	return fmt.Sprintf("%q [%s]", title, tab.ID)
}

// Summary renders one tab listing line. The active tab is marked with "*".
func Summary(summary schema.TabSummary, groups map[schema.GroupID]schema.TabGroup) string {
	marker := " "
	if summary.Active {
		marker = "*"
	}
	var flags []string
	if summary.Status != schema.TabStatusNormal {
		flags = append(flags, string(summary.Status))
	}
	if summary.Incognito {
		flags = append(flags, "incognito")
	}
	if group, ok := groups[summary.GroupID]; ok && summary.GroupID != "" {
		flags = append(flags, "group:"+group.Title)
	}
	line := fmt.Sprintf("%s%2d  %s", marker, summary.Index+1, summary.Title)
	if summary.URL != summary.Title {
		line += "  " + summary.URL
	}
	if len(flags) > 0 {
		line += "  (" + strings.Join(flags, ", ") + ")"
	}
	return line
}

// Group renders one group listing line.
func Group(group schema.TabGroup, members int) string {
	line := fmt.Sprintf("%s  %s  %d tab(s)", group.ID, group.Title, members)
	if group.Color != "" {
		line += "  " + group.Color
	}
	if group.Collapsed {
		line += "  collapsed"
	}
	return line
}

// ClosedEntry renders one recently-closed listing line; position is one-based.
func ClosedEntry(position int, entry *schema.RecentlyClosedEntry, now time.Time) string {
	if entry == nil {
		return fmt.Sprintf("%2d  (missing)", position)
	}
	closedAt := time.UnixMilli(entry.ClosedAt)
	return fmt.Sprintf("%2d  %s  (%s, %s ago)", position, TabLabel(entry.Tab), entry.Reason, Age(now.Sub(closedAt)))
}

// Age renders d in its largest whole unit.
func Age(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
