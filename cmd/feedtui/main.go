package main

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"

	"rescuefeed/cmd/feedtui/internal/app"
)

func main() {
	baseURL := os.Getenv("FEED_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	m := app.New(app.NewAPIClient(baseURL))
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "feedtui: %v\n", err)
		os.Exit(1)
	}
}
