package imaging

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/ironsheep/xray-contours/internal/pipeline"
)

// Output file names written by SaveResult.
const (
	FileOriginal    = "01_original.png"
	FileBlurred     = "02_blurred.png"
	FileEqualized   = "03_equalized.png"
	FileThresholded = "04_thresholded.png"
	FileClosed      = "05_closed.png"
	FileOverlay     = "06_output_with_contours.png"
	FilePanel       = "07_all_steps.png"
	FileContours    = "contours.json"
)

// ContourReport is the JSON document written to contours.json.
type ContourReport struct {
	Source   string             `json:"source,omitempty"`
	Width    int                `json:"width"`
	Height   int                `json:"height"`
	Config   pipeline.Config    `json:"config"`
	Count    int                `json:"count"`
	Contours []pipeline.Contour `json:"contours"`
}

// SaveReport lists what SaveResult wrote.
type SaveReport struct {
	Dir          string   `json:"dir"`
	Files        []string `json:"files"`
	ContourCount int      `json:"contour_count"`
}

// SaveResult writes every stage, the overlay, the overview panel and a
// contour report into dir, creating it if needed. Existing files with the
// same names are overwritten. source is recorded in the report only.
func SaveResult(dir string, res *pipeline.Result, cfg pipeline.Config, source string) (*SaveReport, error) {
	if res == nil {
		return nil, fmt.Errorf("%w: nil result", pipeline.ErrInvalidParameter)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	panel, err := Panel(res, DefaultTileWidth)
	if err != nil {
		return nil, err
	}

	images := []struct {
		name string
		img  image.Image
	}{
		{FileOriginal, ToGray(res.Original)},
		{FileBlurred, ToGray(res.Blurred)},
		{FileEqualized, ToGray(res.Equalized)},
		{FileThresholded, ToGray(res.Thresholded)},
		{FileClosed, ToGray(res.Closed)},
		{FileOverlay, ToRGBA(res.Overlay)},
		{FilePanel, panel},
	}

	report := &SaveReport{Dir: dir, ContourCount: len(res.Contours)}
	for _, f := range images {
		path := filepath.Join(dir, f.name)
		if err := imgio.Save(path, f.img, imgio.PNGEncoder()); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", f.name, err)
		}
		report.Files = append(report.Files, path)
	}

	contours := res.Contours
	if contours == nil {
		contours = []pipeline.Contour{}
	}
	data, err := json.MarshalIndent(ContourReport{
		Source:   source,
		Width:    res.Original.Width,
		Height:   res.Original.Height,
		Config:   cfg,
		Count:    len(contours),
		Contours: contours,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode contours: %w", err)
	}
	path := filepath.Join(dir, FileContours)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", FileContours, err)
	}
	report.Files = append(report.Files, path)

	return report, nil
}
