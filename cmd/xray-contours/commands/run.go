package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ironsheep/xray-contours/internal/imaging"
	"github.com/ironsheep/xray-contours/internal/pipeline"
)

// runSummary is printed by run --json.
type runSummary struct {
	Image        string   `json:"image"`
	Width        int      `json:"width"`
	Height       int      `json:"height"`
	ContourCount int      `json:"contour_count"`
	OutputDir    string   `json:"output_dir,omitempty"`
	Files        []string `json:"files,omitempty"`
}

func runCmd(st *state) *cobra.Command {
	var (
		asJSON bool
		noSave bool
	)
	cmd := &cobra.Command{
		Use:   "run <image>",
		Short: "Run the contour pipeline on an image and save every stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			log := st.log.With().Str("image", path).Logger()

			src, err := imaging.LoadGray(path)
			if err != nil {
				return err
			}
			p, err := pipeline.New(st.cfg.Pipeline, pipeline.WithLogger(log))
			if err != nil {
				return err
			}

			start := time.Now()
			res, err := p.Run(src)
			if err != nil {
				return err
			}
			log.Info().
				Int("width", src.Width).
				Int("height", src.Height).
				Int("contours", len(res.Contours)).
				Dur("elapsed", time.Since(start)).
				Msg("pipeline finished")

			summary := runSummary{
				Image:        path,
				Width:        src.Width,
				Height:       src.Height,
				ContourCount: len(res.Contours),
			}
			if !noSave {
				report, err := imaging.SaveResult(st.cfg.OutputDir, res, st.cfg.Pipeline, path)
				if err != nil {
					return err
				}
				summary.OutputDir = report.Dir
				summary.Files = report.Files
				log.Debug().Str("dir", report.Dir).Int("files", len(report.Files)).Msg("results saved")
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			fmt.Fprintf(w, "Found %d contours in %s (%dx%d)\n", summary.ContourCount, path, summary.Width, summary.Height)
			if !noSave {
				fmt.Fprintf(w, "Results written to %s\n", summary.OutputDir)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print a JSON summary instead of text")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not write any output files")
	return cmd
}
