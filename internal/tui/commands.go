package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/flipbook/internal/assets"
)

func loadPageJob(source assets.Source, number int) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		page, err := source.Load(ctx, number)
		return pageLoadedMsg{number: number, page: page, err: err}, err
	}
}

func resizeCmd(seq int) tea.Cmd {
	return tea.Tick(resizeDebounce, func(time.Time) tea.Msg {
		return resizeMsg{seq: seq}
	})
}

func autoplayCmd(gen int, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return autoplayMsg{gen: gen}
	})
}

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}
