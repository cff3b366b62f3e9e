package storage

import (
	"encoding/json"
	"io"
	"os"
	"time"
)

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Frames []ExportFrame `json:"frames"`
}

type ExportFrame struct {
	Time        float64 `json:"t"`
	Decision    string  `json:"decision"`
	Mode        string  `json:"mode"`
	StepMs      float64 `json:"step_ms"`
	Convergence float64 `json:"convergence"`
}

// ExportJSON writes a run and its frames as one indented JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, frames []Frame) error {
	data := ExportData{
		Run:    sanitize(meta),
		Frames: make([]ExportFrame, len(frames)),
	}
	for i, f := range frames {
		data.Frames[i] = ExportFrame{
			Time:        f.At.Seconds(),
			Decision:    f.Decision,
			Mode:        f.Mode,
			StepMs:      float64(f.StepTime) / float64(time.Millisecond),
			Convergence: f.Convergence,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func ExportJSONFile(path string, meta RunMetadata, frames []Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, meta, frames)
}
