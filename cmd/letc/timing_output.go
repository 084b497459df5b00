package main

import (
	"fmt"
	"io"
	"time"

	"letc/internal/buildpipeline"
)

func printStageTimings(out io.Writer, timings buildpipeline.Timings) {
	if out == nil {
		return
	}
	stages := []struct {
		stage buildpipeline.Stage
		label string
	}{
		{buildpipeline.StageParse, "parsed"},
		{buildpipeline.StageResolve, "resolved"},
		{buildpipeline.StageFlatten, "flattened"},
		{buildpipeline.StageEmit, "emitted"},
	}
	for _, s := range stages {
		if !timings.Has(s.stage) {
			continue
		}
		fmt.Fprintf(out, "%s %.1f ms\n", s.label, toMillis(timings.Duration(s.stage)))
	}
	fmt.Fprintf(out, "total %.1f ms\n", toMillis(timings.Total()))
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
