package app_test

import (
	"fmt"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"rescuefeed/cmd/feedtui/internal/app"
	"rescuefeed/cmd/feedtui/internal/feedlist"
)

// --- Mock fetcher ---

type mockFetcher struct {
	pages map[string]feedlist.Page // keyed by cursor, "" = page 1
	err   error
	calls []string
}

func (f *mockFetcher) FetchPage(cursor string, _ int) (feedlist.Page, error) {
	f.calls = append(f.calls, cursor)
	if f.err != nil {
		return feedlist.Page{}, f.err
	}
	page, ok := f.pages[cursor]
	if !ok {
		return feedlist.Page{}, fmt.Errorf("unexpected cursor %q", cursor)
	}
	return page, nil
}

func caseItem(id string) feedlist.Item {
	return feedlist.Item{
		ID:        id,
		Title:     "case " + id,
		Status:    "urgent",
		Stage:     "active_treatment",
		Goal:      1000,
		Currency:  "EUR",
		CreatedAt: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}

// --- Test helpers ---

func mustModel(iface tea.Model) app.Model {
	return iface.(app.Model)
}

func sendKey(m app.Model, code rune) (app.Model, tea.Cmd) {
	msg := tea.KeyPressMsg{Code: code, Text: string(code)}
	next, cmd := m.Update(msg)
	return mustModel(next), cmd
}

func pressEnter(m app.Model) (app.Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	return mustModel(next), cmd
}

// runCmd executes a tea.Cmd and dispatches the resulting message.
func runCmd(m app.Model, cmd tea.Cmd) (app.Model, tea.Cmd) {
	if cmd == nil {
		return m, nil
	}
	msg := cmd()
	next, nextCmd := m.Update(msg)
	return mustModel(next), nextCmd
}

// boot initializes the model and lands the first page.
func boot(t *testing.T, f *mockFetcher) app.Model {
	t.Helper()
	m := app.New(f)
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init() issued no initial load")
	}
	m, _ = runCmd(m, cmd)
	return m
}

func itemIDs(m app.Model) []string {
	var out []string
	for _, it := range m.Items() {
		out = append(out, it.ID)
	}
	return out
}

// --- Tests ---

func TestInitialLoadRendersCases(t *testing.T) {
	f := &mockFetcher{pages: map[string]feedlist.Page{
		"": {Items: []feedlist.Item{caseItem("a"), caseItem("b")}, HasMore: false},
	}}
	m := boot(t, f)

	if got := itemIDs(m); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("items = %v, want [a b]", got)
	}
	v := m.View()
	if !v.AltScreen {
		t.Error("expected AltScreen enabled")
	}
	if v.Content == "" {
		t.Error("expected non-empty view")
	}
}

func TestScrollingToBottomLoadsNextPage(t *testing.T) {
	f := &mockFetcher{pages: map[string]feedlist.Page{
		"":     {Items: []feedlist.Item{caseItem("a"), caseItem("b")}, HasMore: true, NextCursor: "cur1"},
		"cur1": {Items: []feedlist.Item{caseItem("c")}, HasMore: false},
	}}
	m := boot(t, f)

	// Move onto the last row; the sentinel fires a loadMore.
	m, cmd := sendKey(m, 'j')
	if cmd == nil {
		t.Fatal("reaching the last row did not trigger loadMore")
	}
	m, _ = runCmd(m, cmd)

	if got := itemIDs(m); len(got) != 3 || got[2] != "c" {
		t.Fatalf("items = %v, want [a b c]", got)
	}

	// At the end of the list further scrolling fetches nothing.
	_, cmd = sendKey(m, 'j')
	if cmd != nil {
		t.Fatal("loadMore fired with hasMore=false")
	}
	if len(f.calls) != 2 {
		t.Fatalf("fetch calls = %v, want 2", f.calls)
	}
}

func TestRefreshKeyResetsToPageOne(t *testing.T) {
	f := &mockFetcher{pages: map[string]feedlist.Page{
		"":     {Items: []feedlist.Item{caseItem("a")}, HasMore: true, NextCursor: "cur1"},
		"cur1": {Items: []feedlist.Item{caseItem("b")}, HasMore: false},
	}}
	m := boot(t, f)

	m, cmd := sendKey(m, 'j')
	m, _ = runCmd(m, cmd)
	if got := itemIDs(m); len(got) != 2 {
		t.Fatalf("items before refresh = %v", got)
	}

	// Swap in fresh content, then refresh.
	f.pages[""] = feedlist.Page{Items: []feedlist.Item{caseItem("z")}, HasMore: false}
	m, cmd = sendKey(m, 'r')
	if cmd == nil {
		t.Fatal("refresh key issued no request")
	}
	m, _ = runCmd(m, cmd)

	if got := itemIDs(m); len(got) != 1 || got[0] != "z" {
		t.Fatalf("items after refresh = %v, want [z]", got)
	}
	if m.Selected() != 0 {
		t.Fatalf("selection = %d, want 0 after refresh", m.Selected())
	}
}

func TestPullGestureAtTopRefreshes(t *testing.T) {
	f := &mockFetcher{pages: map[string]feedlist.Page{
		"": {Items: []feedlist.Item{caseItem("a")}, HasMore: false},
	}}
	m := boot(t, f)

	// Pull: repeated scroll-up at the top builds drag offset past the
	// threshold, then enter releases.
	m, _ = sendKey(m, 'k')
	m, _ = sendKey(m, 'k')
	f.pages[""] = feedlist.Page{Items: []feedlist.Item{caseItem("b")}, HasMore: false}
	m, cmd := pressEnter(m)
	if cmd == nil {
		t.Fatal("release past threshold did not refresh")
	}
	m, _ = runCmd(m, cmd)

	if got := itemIDs(m); len(got) != 1 || got[0] != "b" {
		t.Fatalf("items after pull-to-refresh = %v, want [b]", got)
	}
}

func TestFetchErrorShownWithRetry(t *testing.T) {
	f := &mockFetcher{err: fmt.Errorf("connection refused")}
	m := app.New(f)
	m, _ = runCmd(m, m.Init())

	v := m.View()
	if v.Content == "" {
		t.Fatal("expected error view content")
	}

	// Retry via refresh succeeds once the network is back.
	f.err = nil
	f.pages = map[string]feedlist.Page{
		"": {Items: []feedlist.Item{caseItem("a")}, HasMore: false},
	}
	m, cmd := sendKey(m, 'r')
	m, _ = runCmd(m, cmd)
	if got := itemIDs(m); len(got) != 1 {
		t.Fatalf("items after retry = %v, want [a]", got)
	}
}
