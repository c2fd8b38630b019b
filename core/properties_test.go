package core

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"pkt.systems/tabsession/schema"
)

type randomActions struct {
	rng     *rand.Rand
	factory *TabFactory
	groups  []schema.GroupID
}

func (r *randomActions) tabID(state *schema.SessionState) schema.TabID {
	if r.rng.Intn(10) == 0 {
		return "missing"
	}
	return state.Tabs[r.rng.Intn(len(state.Tabs))].ID
}

func (r *randomActions) groupID() schema.GroupID {
	if len(r.groups) == 0 || r.rng.Intn(5) == 0 {
		return ""
	}
	return r.groups[r.rng.Intn(len(r.groups))]
}

func (r *randomActions) next(state *schema.SessionState) action {
	statuses := []schema.TabStatus{schema.TabStatusNormal, schema.TabStatusPinned, schema.TabStatusSleeping, schema.TabStatusDiscarded, "bogus"}
	urls := []string{"https://a", "https://b", "https://c", schema.BlankURL}
	switch r.rng.Intn(18) {
	case 0, 1:
		status := statuses[r.rng.Intn(4)]
		return addTab{tab: r.factory.Create(TabOptions{URL: urls[r.rng.Intn(len(urls))], Status: status, GroupID: r.groupID()}), makeActive: r.rng.Intn(2) == 0}
	case 2:
		return setActiveTab{id: r.tabID(state)}
	case 3, 4:
		url := urls[r.rng.Intn(len(urls))]
		return patchTab{id: r.tabID(state), patch: schema.TabPatch{URL: &url}}
	case 5:
		return setStatus{id: r.tabID(state), status: statuses[r.rng.Intn(len(statuses))]}
	case 6:
		return assignGroup{id: r.tabID(state), group: r.groupID()}
	case 7, 8:
		return closeTab{id: r.tabID(state)}
	case 9:
		var pinned, regular []schema.TabID
		for _, tab := range state.Tabs {
			if r.rng.Intn(2) == 0 {
				pinned = append(pinned, tab.ID)
			} else if r.rng.Intn(3) > 0 {
				regular = append(regular, tab.ID)
			}
		}
		r.rng.Shuffle(len(regular), func(i, j int) { regular[i], regular[j] = regular[j], regular[i] })
		return tabReorder{pinned: pinned, regular: regular}
	case 10:
		if len(state.RecentlyClosed) > 0 && r.rng.Intn(2) == 0 {
			return reopenRecentlyClosed{entry: state.RecentlyClosed[r.rng.Intn(len(state.RecentlyClosed))]}
		}
		return reopenRecentlyClosed{}
	case 11:
		return suggestionAdd{value: urls[r.rng.Intn(len(urls))]}
	case 12:
		id := r.factory.NewGroupID()
		r.groups = append(r.groups, id)
		return groupUpsert{group: schema.TabGroup{ID: id, Title: "g"}}
	case 13:
		return groupDelete{id: r.groupID()}
	case 14:
		return groupToggleCollapse{id: r.groupID()}
	case 15:
		return navigateHistory{id: r.tabID(state), delta: r.rng.Intn(3) - 1}
	case 16:
		if r.rng.Intn(10) == 0 {
			return closeAllTabs{tab: r.factory.Create(TabOptions{})}
		}
		return appendChatMessage{id: r.tabID(state), message: schema.ChatMessage{Role: "user", Content: "hi"}}
	default:
		return rehydrate{snapshot: Snapshot(state, fixedClock(1)).State, fallback: r.factory.Create(TabOptions{})}
	}
}

func TestRandomActionsPreserveInvariants(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		clock := steppingClock(1_000)
		factory := NewTabFactory(clock)
		state := newSessionState(factory.Create(TabOptions{}), 1_000)
		gen := &randomActions{rng: rand.New(rand.NewSource(seed)), factory: factory}
		for step := 0; step < 400; step++ {
			act := gen.next(state)
			before := state.Clone()
			next := reduce(state, act, clock)
			if diff := cmp.Diff(before, state, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("seed %d step %d: %s mutated prior state (-before +after):\n%s", seed, step, act.kind(), diff)
			}
			checkInvariants(t, next)
			state = next
		}
	}
}
