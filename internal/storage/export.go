package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	Run    RunMetadata             `json:"run"`
	Steps  []int                   `json:"steps"`
	Frames []map[string][3]float32 `json:"frames"`
}

// ExportJSON writes a run and its frames as one JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, frames []Frame) error {
	data := ExportData{
		Run:    meta,
		Steps:  make([]int, len(frames)),
		Frames: make([]map[string][3]float32, len(frames)),
	}
	for i, f := range frames {
		data.Steps[i] = f.Step
		positions := make(map[string][3]float32, len(f.Positions))
		for p, v := range f.Positions {
			positions[p] = [3]float32{v.X, v.Y, v.Z}
		}
		data.Frames[i] = positions
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
