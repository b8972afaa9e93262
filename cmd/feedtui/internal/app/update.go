package app

import (
	tea "charm.land/bubbletea/v2"

	"rescuefeed/cmd/feedtui/internal/feedlist"
)

// Init issues the initial page load.
func (m Model) Init() tea.Cmd {
	req, ok := m.list.StartInitial()
	if !ok {
		return nil
	}
	return m.fetch(req)
}

// Update is the bubbletea update function.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case pageMsg:
		if msg.err != nil {
			m.list.Fail(msg.req, msg.err)
			return m, nil
		}
		m.list.Apply(msg.req, msg.page)
		if m.cursor >= len(m.list.Items()) && m.cursor > 0 {
			m.cursor = len(m.list.Items()) - 1
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	k := msg.Key()

	if k.Code == 'c' && k.Mod == tea.ModCtrl {
		return m, tea.Quit
	}

	switch k.Code {
	case 'q', tea.KeyEscape:
		return m, tea.Quit

	case tea.KeyUp, 'k':
		if m.cursor > 0 {
			m.cursor--
			m.dragging = false
			return m, nil
		}
		// Scrolling up while already at the top is the terminal stand-in
		// for the pull gesture: each press drags further down.
		m.dragging = true
		m.list.Drag(m.list.DragOffset() + feedlist.ReleaseThreshold/2)
		return m, nil

	case tea.KeyDown, 'j':
		m.dragging = false
		m.list.Drag(0)
		if m.cursor < len(m.list.Items())-1 {
			m.cursor++
		}
		// The last visible row is the sentinel: reaching it asks for more.
		if m.cursor >= len(m.list.Items())-1 {
			if req, ok := m.list.StartLoadMore(); ok {
				return m, m.fetch(req)
			}
		}
		return m, nil

	case tea.KeyEnter, tea.KeySpace:
		if m.dragging {
			m.dragging = false
			if req, ok := m.list.Release(m.cursor == 0); ok {
				m.cursor = 0
				return m, m.fetch(req)
			}
			return m, nil
		}
		return m, nil

	case 'r':
		// Direct refresh shortcut, same path as a completed pull gesture.
		m.list.Drag(feedlist.MaxDragOffset)
		if req, ok := m.list.Release(true); ok {
			m.cursor = 0
			return m, m.fetch(req)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) fetch(req feedlist.Request) tea.Cmd {
	fetcher := m.fetcher
	return func() tea.Msg {
		if fetcher == nil {
			return pageMsg{req: req, err: errNoFetcher}
		}
		page, err := fetcher.FetchPage(req.Cursor, pageSize)
		return pageMsg{req: req, page: page, err: err}
	}
}
