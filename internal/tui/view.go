package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/csheth/flipbook/internal/gesture"
	"github.com/csheth/flipbook/internal/render"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	indicatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	badgeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	helperStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func (m *model) View() string {
	pages := m.strategy.Render(m.frame())
	if m.layout.zoomed {
		return joinLines(pages, m.helpView())
	}
	return joinLines(m.headerView(), pages, m.sliderView(), m.statusView(), m.helpView())
}

func (m *model) frame() render.Frame {
	pages := m.spread.Pages()
	slots := make([]render.Slot, 0, len(pages))
	for _, number := range pages {
		slot := render.Slot{Page: number}
		slot.Size, _ = m.engine.NaturalSize(number)
		if state, ok := m.pages[number]; ok {
			slot.Loaded = state.loaded
			slot.Missing = state.missing
			slot.Image = state.page.Image
			slot.Text = state.page.Text
		}
		slots = append(slots, slot)
	}
	// The grabbed page lifts only while it is still on screen; after a
	// committed turn it has left the spread.
	lifted := -1
	if m.gesture.State() != gesture.StateIdle {
		for i, slot := range slots {
			if slot.Page == m.liftedPage {
				lifted = i
			}
		}
	}
	return render.Frame{
		Spread: m.spread,
		Slots:  slots,
		Fit:    m.fit,
		Lifted: lifted,
		Angle:  m.gesture.Angle(),
		Width:  m.layout.bookWidth,
		Height: m.layout.bookHeight,
	}
}

func (m *model) headerView() string {
	right := indicatorStyle.Render(indicator(m.spread, m.engine.Total()))
	if m.autoplay {
		right = lipgloss.JoinHorizontal(lipgloss.Top, badgeStyle.Render("▶ auto"), " ", right)
	}
	room := m.width - lipgloss.Width(right) - 1
	if room < 0 {
		room = 0
	}
	title := truncate.StringWithTail(m.config.Book.Name(), uint(room), "…")
	left := titleStyle.Render(title)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *model) sliderView() string {
	bar := m.slider.ViewAs(sliderPercent(m.engine.Current(), m.engine.Total()))
	return strings.Repeat(" ", m.layout.sliderLeft) + bar
}

func (m *model) statusView() string {
	switch {
	case m.stage == stageGoTo:
		return m.goToInput.View()
	case m.errorMessage != "":
		return errorStyle.Render(m.errorMessage)
	case m.infoMessage != "":
		message := m.infoMessage
		if m.jobs.Busy() {
			message = fmt.Sprintf("%s %s", m.spinner.View(), message)
		}
		return helperStyle.Render(message)
	case m.jobs.Busy():
		return helperStyle.Render(fmt.Sprintf("%s loading…", m.spinner.View()))
	case !m.help.ShowAll:
		return m.help.View(m.keys)
	}
	return ""
}

func (m *model) helpView() string {
	if !m.help.ShowAll {
		return ""
	}
	return m.help.View(m.keys)
}

// joinLines stacks rows, dropping only the trailing empty ones.
func joinLines(parts ...string) string {
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, "\n")
}
