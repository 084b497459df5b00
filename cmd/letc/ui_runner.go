package main

import (
	"context"
	"fmt"
	"io"

	"letc/internal/buildpipeline"
	"letc/internal/ui"
)

type pipelineOutcome struct {
	result buildpipeline.Result
	err    error
}

// runPipelineWithUI runs req in the background while the progress view
// consumes its events on out.
func runPipelineWithUI(ctx context.Context, out io.Writer, title string, files []string, req *buildpipeline.Request) (buildpipeline.Result, error) {
	if req == nil {
		return buildpipeline.Result{}, fmt.Errorf("missing pipeline request")
	}
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan pipelineOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = buildpipeline.ChannelSink{Ch: events}
		res, err := buildpipeline.Run(ctx, &reqCopy)
		outcomeCh <- pipelineOutcome{result: res, err: err}
		close(events)
	}()

	uiErr := ui.RunProgress(out, title, files, events)
	// The view may quit before the pipeline finishes.
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
