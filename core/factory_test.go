package core

import (
	"fmt"
	"sync"
	"testing"

	"pkt.systems/tabsession/schema"
)

func TestFactoryHomeDefaults(t *testing.T) {
	factory := NewTabFactory(fixedClock(42))
	tab := factory.Create(TabOptions{})
	if tab.URL != schema.BlankURL || tab.Title != schema.NewTabTitle {
		t.Fatalf("unexpected home tab: %+v", tab)
	}
	if tab.AddressInput != "" || tab.AddressValue != "" {
		t.Fatalf("expected empty address for home tab")
	}
	if len(tab.History) != 1 || tab.HistoryIndex != 0 || tab.History[0].URL != schema.BlankURL {
		t.Fatalf("unexpected history: %+v idx=%d", tab.History, tab.HistoryIndex)
	}
	if tab.Status != schema.TabStatusNormal || tab.CreatedAt != 42 {
		t.Fatalf("unexpected status or createdAt: %+v", tab)
	}
	if tab.ID != "tab-42-1" {
		t.Fatalf("unexpected id %q", tab.ID)
	}
}

func TestFactoryURLDefaults(t *testing.T) {
	factory := NewTabFactory(fixedClock(42))
	input := "draft"
	tab := factory.Create(TabOptions{URL: "https://example.com", Status: schema.TabStatusPinned, AddressInput: &input, Incognito: true})
	if tab.Title != "https://example.com" {
		t.Fatalf("expected url as title, got %q", tab.Title)
	}
	if tab.AddressValue != "https://example.com" || tab.AddressInput != "draft" {
		t.Fatalf("unexpected address fields: %q %q", tab.AddressValue, tab.AddressInput)
	}
	if !tab.Pinned() || !tab.Incognito {
		t.Fatalf("expected pinned incognito tab")
	}
}

func TestFactoryInvalidStatusFallsBack(t *testing.T) {
	tab := NewTabFactory(fixedClock(1)).Create(TabOptions{Status: "frozen"})
	if tab.Status != schema.TabStatusNormal {
		t.Fatalf("expected normal status, got %q", tab.Status)
	}
}

func TestFactoriesAreIndependent(t *testing.T) {
	a := NewTabFactory(fixedClock(7))
	b := NewTabFactory(fixedClock(7))
	if a.Create(TabOptions{}).ID != b.Create(TabOptions{}).ID {
		t.Fatalf("expected separate counters per factory")
	}
}

func TestFactoryConcurrentIDsUnique(t *testing.T) {
	factory := NewTabFactory(fixedClock(7))
	const workers, per = 8, 50
	ids := make(chan schema.TabID, workers*per)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < per; i++ {
				ids <- factory.Create(TabOptions{}).ID
			}
		}()
	}
	wg.Wait()
	close(ids)
	seen := map[schema.TabID]bool{}
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
	if len(seen) != workers*per {
		t.Fatalf("expected %d ids, got %d", workers*per, len(seen))
	}
	if group := factory.NewGroupID(); group != schema.GroupID(fmt.Sprintf("group-7-%d", workers*per+1)) {
		t.Fatalf("unexpected group id %q", group)
	}
}
