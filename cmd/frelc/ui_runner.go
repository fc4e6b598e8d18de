package main

import (
	"context"

	"frel/internal/buildpipeline"
	"frel/internal/driver"
	"frel/internal/ui"
)

type runOutcome struct {
	result *driver.RunResult
	err    error
}

// runWithUI drives driver.Run in the background while the progress model
// renders its events.
func runWithUI(ctx context.Context, title, path string, files []string, opts driver.Options) (*driver.RunResult, error) {
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = buildpipeline.Tee(opts.Progress, buildpipeline.ChannelSink{Ch: events})
		res, err := driver.Run(ctx, path, optsCopy)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	uiErr := ui.Run(title, files, events)
	// UI может закрыться раньше (Ctrl+C); driver не должен упереться в полный канал
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
