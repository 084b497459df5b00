package main

import (
	"fmt"
	"os"
	"strings"
)

// progressMode selects whether flatten draws its per-file progress view.
type progressMode uint8

const (
	progressAuto progressMode = iota
	progressOn
	progressOff
)

var progressModes = map[string]progressMode{
	"":     progressAuto,
	"auto": progressAuto,
	"on":   progressOn,
	"off":  progressOff,
}

func parseProgressMode(value string) (progressMode, error) {
	mode, ok := progressModes[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return progressAuto, fmt.Errorf("letc flatten: --ui must be auto, on or off, got %q", value)
	}
	return mode, nil
}

// showProgress reports whether the progress view should be drawn on out.
// --quiet wins over --ui=on; auto draws only on a terminal.
func showProgress(mode progressMode, quiet bool, out *os.File) bool {
	if quiet {
		return false
	}
	switch mode {
	case progressOn:
		return true
	case progressOff:
		return false
	default:
		return isTerminal(out)
	}
}
