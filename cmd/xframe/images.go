package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/muurk/framebridge/internal/frame"
	"github.com/muurk/framebridge/internal/ui"
)

// Image command flags
var (
	previewCols int
	noOverlay   bool
	outPath     string
	rawRecords  bool
)

func init() {
	rootCmd.AddCommand(imageCmd)
	rootCmd.AddCommand(graphicsCmd)
	rootCmd.AddCommand(gifCmd)

	imageCmd.Flags().IntVar(&previewCols, "cols", 72, "Preview width in characters")
	imageCmd.Flags().BoolVar(&noOverlay, "no-overlay", false, "Do not draw the graphics overlay")
	imageCmd.Flags().StringVar(&outPath, "out", "", "Write the top-first pixel bytes to a file instead of previewing")
	graphicsCmd.Flags().BoolVar(&rawRecords, "records", false, "Print the raw overlay records")
	gifCmd.Flags().StringVar(&outPath, "out", "", "Output file (default frame<N>.gif)")
}

var imageCmd = &cobra.Command{
	Use:   "image [frame]",
	Short: "Preview a frame's image",
	Long: `Fetch a frame's pixels and draw a text preview, with overlay graphics
marked 'o'. With --out the raw pixel bytes, one byte per element and top
row first, are written to a file instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := frameArg(args)
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		ctx := cmd.Context()
		f := a.session.Frame(n)
		pix, err := f.ImageData(ctx, false)
		if err != nil {
			return err
		}
		height, err := f.LineSize(ctx, false)
		if err != nil {
			return err
		}
		width, err := f.ElementSize(ctx, false)
		if err != nil {
			return err
		}

		if outPath != "" {
			if err := os.WriteFile(outPath, pix, 0o644); err != nil {
				return fmt.Errorf("failed to write image: %w", err)
			}
			a.printer.PrintSuccess("Image saved",
				ui.Field{Key: "File", Value: outPath},
				ui.Field{Key: "Size", Value: fmt.Sprintf("%d lines x %d elements", height, width)},
			)
			return nil
		}

		img := frame.Raster{Height: height, Width: width, Pix: pix}
		var overlay frame.Raster
		if !noOverlay {
			over, err := f.GraphicsData(ctx, false)
			if err != nil {
				return err
			}
			overlay = frame.Raster{Height: height, Width: width, Pix: over}
		}
		fmt.Print(ui.RenderPreview(img, overlay, previewCols))
		return nil
	},
}

var graphicsCmd = &cobra.Command{
	Use:   "graphics [frame]",
	Short: "Summarize a frame's graphics overlay",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		quiet, err := yamlOutput()
		if err != nil {
			return err
		}
		n, err := frameArg(args)
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		ctx := cmd.Context()
		f := a.session.Frame(n)
		records, err := f.Client().Graphics(ctx)
		if err != nil {
			return err
		}
		if rawRecords {
			for _, r := range records {
				fmt.Println(r)
			}
			return nil
		}

		height, err := f.LineSize(ctx, false)
		if err != nil {
			return err
		}
		width, err := f.ElementSize(ctx, false)
		if err != nil {
			return err
		}
		overlay, skipped := frame.Composite(records, height, width)
		points := overlayPoints(overlay)

		if quiet {
			return printYAML(struct {
				Records int      `yaml:"records"`
				Points  int      `yaml:"points"`
				Skipped []string `yaml:"skipped,omitempty"`
			}{len(records), points, skipped})
		}

		details := []ui.Field{
			{Key: "Records", Value: strconv.Itoa(len(records))},
			{Key: "Points drawn", Value: strconv.Itoa(points)},
		}
		if len(skipped) > 0 {
			details = append(details, ui.Field{Key: "Skipped", Value: strconv.Itoa(len(skipped))})
			a.printer.PrintWarning("Some overlay records could not be parsed", details...)
			return nil
		}
		a.printer.PrintSuccess("Overlay of frame "+frameLabel(n), details...)
		return nil
	},
}

var gifCmd = &cobra.Command{
	Use:   "gif [frame]",
	Short: "Download a frame's GIF snapshot",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := frameArg(args)
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		path := outPath
		if path == "" {
			path = "frame" + frameLabel(n) + ".gif"
		}

		var data []byte
		err = ui.Spin(cmd.Context(), os.Stdout, "Downloading snapshot of frame "+frameLabel(n), func(ctx context.Context) error {
			var err error
			data, err = a.session.Frame(n).GIF(ctx)
			return err
		})
		if err != nil {
			a.printer.PrintError("Snapshot failed", err, ui.Troubleshooting(err))
			return err
		}
		if len(data) == 0 {
			return fmt.Errorf("the bridge returned an empty snapshot")
		}

		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
		a.printer.PrintSuccess("Snapshot saved",
			ui.Field{Key: "File", Value: path},
			ui.Field{Key: "Bytes", Value: strconv.Itoa(len(data))},
		)
		return nil
	},
}
