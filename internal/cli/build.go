package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/timeliner/internal/chunker"
	"github.com/dgallion1/timeliner/internal/config"
	"github.com/dgallion1/timeliner/internal/parser"
	"github.com/dgallion1/timeliner/internal/pipeline"
	"github.com/dgallion1/timeliner/internal/render"
)

// BuildCmd runs the extraction pipeline once over a local file and writes
// the rendered timeline.
func BuildCmd() *cobra.Command {
	var (
		out       string
		title     string
		guidance  string
		startYear int
		endYear   int
		width     int
		maxChunks int
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "build <file>",
		Short: "Extract a timeline from a document and render it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			gen, err := newGenerator(cfg)
			if err != nil {
				return err
			}

			log := slog.New(slog.NewTextHandler(os.Stderr, nil))
			path := args[0]

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer f.Close()

			p, err := parser.ForFile(path)
			if err != nil {
				return err
			}
			doc, err := p.Parse(f, filepath.Base(path))
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
			if title != "" {
				doc.Title = title
			}

			chunks := chunker.Chunk(doc, chunker.Config{
				ChunkSize:    cfg.ChunkSize,
				ChunkOverlap: cfg.ChunkOverlap,
			})
			if len(chunks) == 0 {
				return fmt.Errorf("no extractable content in %s", path)
			}
			log.Info("chunked document", "chunks", len(chunks))

			ex := pipeline.NewExtractor(gen, nil, log, cfg.MaxConcurrentExtract)
			ex.Guidance = guidance
			ex.MaxChunks = maxChunks

			result, err := ex.Run(cmd.Context(), chunks)
			if err != nil {
				return fmt.Errorf("extract: %w", err)
			}
			log.Info("extraction complete",
				"events_kept", result.Report.EventsKept,
				"rejected_responses", result.Report.RejectedResponses,
			)

			if out == "" {
				ext := ".html"
				if asJSON {
					ext = ".json"
				}
				out = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ext
			}

			var payload []byte
			if asJSON {
				payload, err = json.MarshalIndent(result.Events, "", "  ")
				if err != nil {
					return fmt.Errorf("encode events: %w", err)
				}
			} else {
				w := width
				if w <= 0 {
					w = cfg.DefaultWidth
				}
				page, err := render.Page(result.Events, render.Options{
					Title:     doc.Title,
					DocName:   doc.Name,
					StartYear: startYear,
					EndYear:   endYear,
					Width:     w,
				})
				if err != nil {
					return err
				}
				payload = []byte(page)
			}

			if err := os.WriteFile(out, payload, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d events)\n", out, len(result.Events))
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output file (default: input name with .html or .json)")
	cmd.Flags().StringVar(&title, "title", "", "Timeline title (default: document title)")
	cmd.Flags().StringVar(&guidance, "guidance", "", "Extra guidance text appended to the extraction prompt")
	cmd.Flags().IntVar(&startYear, "start-year", 0, "Start of the visible window (default: derived from events)")
	cmd.Flags().IntVar(&endYear, "end-year", 0, "End of the visible window (default: derived from events)")
	cmd.Flags().IntVar(&width, "width", 0, "Page width in pixels")
	cmd.Flags().IntVar(&maxChunks, "max-chunks", 0, "Process only the first N chunks (0 = all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Write the event list as JSON instead of HTML")

	return cmd
}
