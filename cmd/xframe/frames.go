package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/framebridge/internal/frame"
	"github.com/muurk/framebridge/internal/protocol"
	"github.com/muurk/framebridge/internal/ui"
)

// Frame command flags
var (
	showWords     bool
	fullTables    bool
	prefetchLimit int
)

func init() {
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(framesCmd)
	rootCmd.AddCommand(dimsCmd)
	rootCmd.AddCommand(directoryCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(enhancementCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(prefetchCmd)

	directoryCmd.Flags().BoolVar(&showWords, "words", false, "Include the raw directory words")
	tablesCmd.Flags().BoolVar(&fullTables, "full", false, "Show all 256 entries")
	enhancementCmd.Flags().BoolVar(&fullTables, "full", false, "Show all 256 entries")
	prefetchCmd.Flags().IntVar(&prefetchLimit, "limit", frame.DefaultPrefetchLimit, "Frames fetched at once")
}

// directoryView is the printable form of a frame directory
type directoryView struct {
	Sensor      int       `yaml:"sensor"`
	SensorName  string    `yaml:"sensor_name,omitempty"`
	Cyd         int       `yaml:"cyd"`
	Hms         int       `yaml:"hms"`
	NominalTime time.Time `yaml:"nominal_time"`
	Band        int       `yaml:"band"`
	ULLine      int       `yaml:"ul_line"`
	ULEle       int       `yaml:"ul_element"`
	LineRes     int       `yaml:"line_res"`
	EleRes      int       `yaml:"element_res"`
	LineMag     int       `yaml:"line_mag"`
	EleMag      int       `yaml:"element_mag"`
	Navigation  string    `yaml:"navigation"`
	NavWords    int       `yaml:"navigation_words"`
	AuxWords    int       `yaml:"aux_words"`
	Words       []int32   `yaml:"words,omitempty"`
}

func newDirectoryView(d *protocol.Directory, words bool) *directoryView {
	v := &directoryView{
		Sensor:      d.SensorNumber,
		SensorName:  d.SensorName,
		Cyd:         d.Cyd,
		Hms:         d.Hms,
		NominalTime: d.NominalTime,
		Band:        d.Band,
		ULLine:      d.ULLine,
		ULEle:       d.ULEle,
		LineRes:     d.LineRes,
		EleRes:      d.EleRes,
		LineMag:     d.LineMag,
		EleMag:      d.EleMag,
		Navigation:  protocol.NavName(d.Nav.Type()),
		NavWords:    len(d.Nav.Words()),
		AuxWords:    len(d.Aux),
	}
	if words {
		v.Words = d.Words()
	}
	return v
}

// rows lays the directory out as key/value table rows
func (v *directoryView) rows() [][]string {
	name := v.SensorName
	if name == "" {
		name = "-"
	}
	return [][]string{
		{"Sensor", fmt.Sprintf("%d (%s)", v.Sensor, name)},
		{"Nominal time", v.NominalTime.UTC().Format(time.RFC3339)},
		{"Day / time", fmt.Sprintf("%d %06d", v.Cyd, v.Hms)},
		{"Band", strconv.Itoa(v.Band)},
		{"Upper left", fmt.Sprintf("line %d, element %d", v.ULLine, v.ULEle)},
		{"Resolution", fmt.Sprintf("%d x %d", v.LineRes, v.EleRes)},
		{"Magnification", fmt.Sprintf("%d x %d", v.LineMag, v.EleMag)},
		{"Navigation", fmt.Sprintf("%s (%d words)", v.Navigation, v.NavWords)},
		{"Aux block", fmt.Sprintf("%d words", v.AuxWords)},
	}
}

// overlayPoints counts the overlay cells that are not background
func overlayPoints(overlay []byte) int {
	n := 0
	for _, v := range overlay {
		if v != frame.Background {
			n++
		}
	}
	return n
}

var infoCmd = &cobra.Command{
	Use:   "info [frame]",
	Short: "Show a frame's directory, size, color table and overlay",
	Long: `Fetch everything the bridge holds for one frame and summarize it.

Without a frame number the frame currently shown by the engine is used.`,
	Example: `  # Current frame
  xframe info

  # Frame 3 from the "lab" profile, as YAML
  xframe info 3 --bridge lab --format yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInfo,
}

type frameInfo struct {
	Frame         int            `yaml:"frame"`
	Lines         int            `yaml:"lines"`
	Elements      int            `yaml:"elements"`
	Palette       string         `yaml:"palette"`
	OverlayPoints int            `yaml:"overlay_points"`
	Directory     *directoryView `yaml:"directory"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	n, err := frameArg(args)
	if err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}

	f := a.session.Frame(n)
	view := frameInfo{Frame: n}

	steps := []step{
		{"Read frame directory", func(ctx context.Context) (string, error) {
			dir, err := f.FrameDirectory(ctx, false)
			if err != nil {
				return "", err
			}
			view.Directory = newDirectoryView(dir, false)
			return protocol.NavName(dir.Nav.Type()), nil
		}},
		{"Read table and pixel data", func(ctx context.Context) (string, error) {
			lines, err := f.LineSize(ctx, false)
			if err != nil {
				return "", err
			}
			elems, err := f.ElementSize(ctx, false)
			if err != nil {
				return "", err
			}
			view.Lines, view.Elements = lines, elems
			return fmt.Sprintf("%dx%d", lines, elems), nil
		}},
		{"Build color table", func(ctx context.Context) (string, error) {
			pal, err := f.ColorTable(ctx, false)
			if err != nil {
				return "", err
			}
			view.Palette = pal.Category + "/" + pal.Name
			return view.Palette, nil
		}},
		{"Read graphics overlay", func(ctx context.Context) (string, error) {
			overlay, err := f.GraphicsData(ctx, false)
			if err != nil {
				return "", err
			}
			view.OverlayPoints = overlayPoints(overlay)
			return fmt.Sprintf("%d points", view.OverlayPoints), nil
		}},
	}

	err = a.runSteps(cmd, args, "Frame Info", steps, func() []ui.Field {
		return []ui.Field{
			{Key: "Frame", Value: frameLabel(n)},
			{Key: "Size", Value: fmt.Sprintf("%d lines x %d elements", view.Lines, view.Elements)},
			{Key: "Sensor", Value: fmt.Sprintf("%d %s", view.Directory.Sensor, view.Directory.SensorName)},
			{Key: "Time", Value: view.Directory.NominalTime.UTC().Format(time.RFC3339)},
			{Key: "Overlay", Value: strconv.Itoa(view.OverlayPoints) + " points"},
		}
	})
	if err != nil {
		return err
	}
	if quiet, _ := yamlOutput(); quiet {
		return printYAML(view)
	}
	return nil
}

var framesCmd = &cobra.Command{
	Use:   "frames",
	Short: "List the engine's frames",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		quiet, err := yamlOutput()
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		ctx := cmd.Context()
		current, err := a.transport.CurrentFrame(ctx)
		if err != nil {
			return err
		}
		numbers, err := a.transport.FrameNumbers(ctx)
		if err != nil {
			return err
		}

		if quiet {
			return printYAML(struct {
				Current int   `yaml:"current"`
				Frames  []int `yaml:"frames"`
			}{current, numbers})
		}

		rows := make([][]string, len(numbers))
		for i, n := range numbers {
			mark := ""
			if n == current {
				mark = ui.StepMarkerRunning
			}
			rows[i] = []string{strconv.Itoa(n), mark}
		}
		a.printer.PrintTable([]string{"Frame", "Shown"}, rows)
		return nil
	},
}

var dimsCmd = &cobra.Command{
	Use:   "dims [frame]",
	Short: "Print a frame's lines and elements",
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

		f := a.session.Frame(n)
		lines, err := f.LineSize(cmd.Context(), false)
		if err != nil {
			return err
		}
		elems, err := f.ElementSize(cmd.Context(), false)
		if err != nil {
			return err
		}

		if quiet {
			return printYAML(map[string]int{"lines": lines, "elements": elems})
		}
		fmt.Printf("%d %d\n", lines, elems)
		return nil
	},
}

var directoryCmd = &cobra.Command{
	Use:   "directory [frame]",
	Short: "Decode a frame's directory",
	Long: `Fetch and decode the directory of a frame: the 64-word header, the
navigation block and, for LALO navigation, the latitude/longitude grid.`,
	Args: cobra.MaximumNArgs(1),
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

		dir, err := a.session.Frame(n).FrameDirectory(cmd.Context(), false)
		if err != nil {
			return err
		}
		view := newDirectoryView(dir, showWords)

		if quiet {
			return printYAML(view)
		}
		a.printer.PrintTable([]string{"Field", "Value"}, view.rows())
		if showWords {
			fmt.Println(view.Words)
		}
		return nil
	},
}

// tableRows returns the number of table rows to print
func tableRows() int {
	if fullTables {
		return protocol.TableSize
	}
	return 16
}

var tablesCmd = &cobra.Command{
	Use:   "tables [frame]",
	Short: "Print a frame's stretch, color and graphics tables",
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

		c := a.session.Frame(n).Client()
		ctx := cmd.Context()
		stretch, err := c.StretchTable(ctx)
		if err != nil {
			return err
		}
		color, err := c.ColorTable(ctx)
		if err != nil {
			return err
		}
		graphics, err := c.GraphicsTable(ctx)
		if err != nil {
			return err
		}

		if quiet {
			return printYAML(map[string][]int32{
				"stretch":  stretch[:],
				"color":    color[:],
				"graphics": graphics[:],
			})
		}

		rows := make([][]string, tableRows())
		for i := range rows {
			rows[i] = []string{
				strconv.Itoa(i),
				strconv.Itoa(int(stretch[i])),
				fmt.Sprintf("#%06x", color[i]),
				fmt.Sprintf("#%06x", graphics[i]),
			}
		}
		a.printer.PrintTable([]string{"Index", "Stretch", "Color", "Graphics"}, rows)
		return nil
	},
}

var enhancementCmd = &cobra.Command{
	Use:   "enhancement [frame]",
	Short: "Print a frame's enhancement (RGB) table",
	Long: `Print the display color table built from the stretch and color tables.
Components are in [0, 1].`,
	Args: cobra.MaximumNArgs(1),
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

		et, err := a.session.Frame(n).Client().EnhancementTable(cmd.Context())
		if err != nil {
			return err
		}

		if quiet {
			return printYAML(map[string][]float32{
				"red":   et[0][:],
				"green": et[1][:],
				"blue":  et[2][:],
			})
		}

		rows := make([][]string, tableRows())
		for i := range rows {
			r, g, b := et.RGB(i)
			rows[i] = []string{strconv.Itoa(i), fmt.Sprintf("%.3f", r), fmt.Sprintf("%.3f", g), fmt.Sprintf("%.3f", b)}
		}
		a.printer.PrintTable([]string{"Index", "Red", "Green", "Blue"}, rows)
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set [name]",
	Short: "Build a frame set from the engine's frame list",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		quiet, err := yamlOutput()
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		name := "engine"
		if len(args) > 0 {
			name = args[0]
		}
		set, err := a.session.Set(cmd.Context(), name)
		if err != nil {
			return err
		}

		if quiet {
			return printYAML(struct {
				Name    string `yaml:"name"`
				Request string `yaml:"request"`
				Frames  []int  `yaml:"frames"`
				Hash    string `yaml:"hash"`
			}{set.Name, set.Request, set.Numbers, fmt.Sprintf("%016x", set.Hash())})
		}
		fmt.Println(set.String())
		fmt.Printf("hash %016x\n", set.Hash())
		return nil
	},
}

var prefetchCmd = &cobra.Command{
	Use:   "prefetch [frames...]",
	Short: "Fetch several frames concurrently",
	Long: `Fetch directory, color table, image and overlay of several frames at
once. Without arguments every frame the engine holds is fetched.`,
	Example: `  # All frames
  xframe prefetch

  # Frames 1, 2 and 5, two at a time
  xframe prefetch 1,2 5 --limit 2`,
	RunE: runPrefetch,
}

type snapshotView struct {
	Frame    int    `yaml:"frame"`
	Lines    int    `yaml:"lines"`
	Elements int    `yaml:"elements"`
	Sensor   int    `yaml:"sensor"`
	Time     string `yaml:"time"`
	Overlay  int    `yaml:"overlay_points"`
}

func runPrefetch(cmd *cobra.Command, args []string) error {
	numbers, err := parseFrames(args)
	if err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	if prefetchLimit > 0 {
		a.session.PrefetchLimit = prefetchLimit
	}

	var snaps []*frame.Snapshot
	steps := []step{
		{"List engine frames", func(ctx context.Context) (string, error) {
			if len(numbers) > 0 {
				return "given on the command line", nil
			}
			set, err := a.session.Set(ctx, "engine")
			if err != nil {
				return "", err
			}
			if set.Empty() {
				return "", fmt.Errorf("the engine holds no frames")
			}
			numbers = set.Numbers
			return fmt.Sprintf("%d frames", len(numbers)), nil
		}},
		{"Fetch frames", func(ctx context.Context) (string, error) {
			var err error
			snaps, err = a.session.Prefetch(ctx, numbers, frame.DirtyFlags{})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d fetched, %d at a time", len(snaps), a.session.PrefetchLimit), nil
		}},
	}

	err = a.runSteps(cmd, args, "Frame Prefetch", steps, func() []ui.Field {
		return []ui.Field{{Key: "Frames", Value: strconv.Itoa(len(snaps))}}
	})
	if err != nil {
		return err
	}

	views := make([]snapshotView, len(snaps))
	rows := make([][]string, len(snaps))
	for i, s := range snaps {
		views[i] = snapshotView{
			Frame:    s.Number,
			Lines:    s.Image.Height,
			Elements: s.Image.Width,
			Sensor:   s.Directory.SensorNumber,
			Time:     s.Directory.NominalTime.UTC().Format(time.RFC3339),
			Overlay:  overlayPoints(s.Overlay.Pix),
		}
		v := views[i]
		rows[i] = []string{
			strconv.Itoa(v.Frame),
			fmt.Sprintf("%dx%d", v.Lines, v.Elements),
			strconv.Itoa(v.Sensor),
			v.Time,
			strconv.Itoa(v.Overlay),
		}
	}

	if quiet, _ := yamlOutput(); quiet {
		return printYAML(views)
	}
	a.printer.PrintTable([]string{"Frame", "Size", "Sensor", "Time", "Overlay"}, rows)
	return nil
}
