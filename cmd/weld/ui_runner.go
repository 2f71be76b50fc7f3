package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"weld/internal/flatten"
	"weld/internal/ui"
)

// runFlattenWithUI drives the pipeline behind a Bubble Tea progress view.
// The view seeds with the entry files; transitive imports appear as they
// are discovered.
func runFlattenWithUI(ctx context.Context, title string, sink flatten.Sink, files []string, opts flatten.Options) error {
	events := make(chan flatten.Event, 256)
	outcomeCh := make(chan error, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = flatten.ChannelSink{Ch: events}
		outcomeCh <- flatten.FlattenTo(ctx, sink, optsCopy)
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return uiErr
	}
	return outcome
}
