package driver

import (
	"encoding/json"
	"fmt"

	"letc/internal/diag"
	"letc/internal/observ"
	"letc/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// appendTimingDiagnostic records report as an OBS info diagnostic whose
// note carries the JSON form. It is added even when the bag is full.
func appendTimingDiagnostic(bag *diag.Bag, path string, report observ.Report) {
	if bag == nil {
		return
	}
	payload := timingPayload{Kind: "compile", Path: path, TotalMS: report.TotalMS, Phases: report.Phases}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	entry := &diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.ObsTimings,
		Message:  fmt.Sprintf("timings: total %.2f ms", payload.TotalMS),
		Notes:    []diag.Note{{Span: source.Span{}, Msg: string(data)}},
	}
	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
