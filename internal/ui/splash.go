package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const splashDuration = 1500 * time.Millisecond

// SplashModel is the TUI model for the startup splash
type SplashModel struct {
	width    int
	height   int
	title    string
	subtitle string
	done     bool
}

type splashTimeoutMsg struct{}

func waitForTimeout() tea.Cmd {
	return tea.Tick(splashDuration, func(t time.Time) tea.Msg {
		return splashTimeoutMsg{}
	})
}

func (m SplashModel) Init() tea.Cmd {
	return waitForTimeout()
}

func (m SplashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg, splashTimeoutMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m SplashModel) View() string {
	if m.done {
		return ""
	}

	layout := NewLayout(m.width, m.height)
	height := layout.ViewportHeight - 4
	if height < 10 {
		height = 10
	}

	// Title and subtitle centered in the frame
	var b strings.Builder
	for i := 0; i < height/2-1; i++ {
		b.WriteString("\n")
	}
	b.WriteString(CenterText(RenderTitle(m.title), layout.InnerWidth))
	b.WriteString("\n")
	b.WriteString(CenterText(RenderDim(m.subtitle), layout.InnerWidth))

	return BorderStyle.
		Width(layout.InnerWidth).
		Height(height).
		Render(b.String())
}

// ShowSplash displays the app name and the backend it talks to
func ShowSplash(backend string) {
	model := SplashModel{
		width:    DefaultWidth,
		height:   30,
		title:    "SALESVIEW",
		subtitle: backend,
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	p.Run()

	// Clear screen before continuing
	fmt.Print("\033[2J\033[H")
}
