package core

import (
	"fmt"
	"sync"

	"pkt.systems/tabsession/schema"
)

// TabOptions configures a tab built by TabFactory.
type TabOptions struct {
	URL          string
	Title        string
	Incognito    bool
	Status       schema.TabStatus
	GroupID      schema.GroupID
	AddressInput *string
}

// TabFactory builds tabs with ids unique to the factory instance.
type TabFactory struct {
	clock Clock
	mu    sync.Mutex
	seq   uint64
}

// NewTabFactory returns a factory reading time from clock.
func NewTabFactory(clock Clock) *TabFactory {
	if clock == nil {
		clock = SystemClock
	}
	return &TabFactory{clock: clock}
}

func (f *TabFactory) next() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	return f.seq
}

// NewTabID returns a fresh id of the form tab-<createdAtMs>-<seq>.
func (f *TabFactory) NewTabID(createdAt int64) schema.TabID {
	return schema.TabID(fmt.Sprintf("tab-%d-%d", createdAt, f.next()))
}

// NewGroupID returns a fresh group id.
func (f *TabFactory) NewGroupID() schema.GroupID {
	return schema.GroupID(fmt.Sprintf("group-%d-%d", f.clock.millis(), f.next()))
}

// Create builds a tab with a single history entry.
func (f *TabFactory) Create(opts TabOptions) schema.Tab {
	now := f.clock.millis()
	url := opts.URL
	if url == "" {
		url = schema.BlankURL
	}
	isHome := url == schema.BlankURL
	title := opts.Title
	if title == "" {
		title = defaultTitle(url)
	}
	address := url
	if isHome {
		address = ""
	}
	input := address
	if opts.AddressInput != nil {
		input = *opts.AddressInput
	}
	status, ok := schema.NormalizeTabStatus(string(opts.Status))
	if !ok {
		status = schema.TabStatusNormal
	}
	id := f.NewTabID(now)
	return schema.Tab{
		ID:           id,
		Title:        title,
		URL:          url,
		AddressValue: address,
		AddressInput: input,
		ChatHistory:  []schema.ChatMessage{},
		Status:       status,
		Incognito:    opts.Incognito,
		GroupID:      opts.GroupID,
		History:      []schema.HistoryEntry{newHistoryEntry(id, 0, url, title, now)},
		HistoryIndex: 0,
		CreatedAt:    now,
		LastActiveAt: now,
	}
}

func defaultTitle(url string) string {
	if url == schema.BlankURL {
		return schema.NewTabTitle
	}
	return url
}
