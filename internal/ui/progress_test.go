package ui

import (
	"strings"
	"testing"

	"letc/internal/buildpipeline"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan buildpipeline.Event)
	m := NewProgressModel("flatten", []string{"a.let", "b.let"}, events).(*progressModel)

	m.Update(eventMsg{File: "a.let", Stage: buildpipeline.StageResolve, Status: buildpipeline.StatusWorking})
	m.Update(eventMsg{File: "b.let", Stage: buildpipeline.StageFlatten, Status: buildpipeline.StatusDone})
	m.Update(eventMsg{File: "other.let", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking})

	if got := m.items[0].status; got != "resolving" {
		t.Fatalf("a.let status %q, want resolving", got)
	}
	if got := m.items[1].status; got != "done" {
		t.Fatalf("b.let status %q, want done", got)
	}
	if got, want := m.percent(), (0.5+1.0)/2; got != want {
		t.Fatalf("percent %v, want %v", got, want)
	}

	view := m.View()
	for _, want := range []string{"flatten", "resolving", "a.let", "b.let"} {
		if !strings.Contains(view, want) {
			t.Errorf("view does not mention %q:\n%s", want, view)
		}
	}

	m.Update(doneMsg{})
	if !m.done || !strings.Contains(m.View(), "done: flatten") {
		t.Fatalf("model did not finish:\n%s", m.View())
	}
}

func TestOverallEventSetsHeader(t *testing.T) {
	m := NewProgressModel("run", []string{"x.let"}, nil).(*progressModel)
	m.Update(eventMsg{Stage: buildpipeline.StageFlatten, Status: buildpipeline.StatusError})
	if m.stageLabel != "error" || !m.failed {
		t.Fatalf("overall error not recorded: label=%q failed=%v", m.stageLabel, m.failed)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"short.let", 20, "short.let"},
		{"some/long/path/file.let", 10, "some..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}
