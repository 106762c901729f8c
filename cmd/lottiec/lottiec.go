package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/inamate/inamate/lottiegen/internal/document"
	"github.com/inamate/inamate/lottiegen/internal/engine"
	"github.com/inamate/inamate/lottiegen/internal/issues"
	"github.com/inamate/inamate/lottiegen/internal/scene"
	"github.com/inamate/inamate/lottiegen/internal/translate"
)

func lottiecMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Color && cfg.NoColor {
		return fmt.Errorf("%w: -color and -nocolor are exclusive", cli.ErrUsage)
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

// Report is what translate prints and diff compares.
type Report struct {
	Width     float64         `json:"width" yaml:"width"`
	Height    float64         `json:"height" yaml:"height"`
	Duration  float64         `json:"duration" yaml:"duration"`
	FrameRate float64         `json:"frameRate" yaml:"frameRate"`
	Issues    []issues.Issue  `json:"issues" yaml:"issues"`
	Scene     *scene.DumpNode `json:"scene" yaml:"scene"`
}

func newReport(r *translate.Result) *Report {
	list := r.Issues
	if list == nil {
		list = []issues.Issue{}
	}
	return &Report{
		Width:     r.Width,
		Height:    r.Height,
		Duration:  r.Duration,
		FrameRate: r.FrameRate,
		Issues:    list,
		Scene:     scene.Dump(r.Root),
	}
}

func encodeReport(rep *Report, format string) ([]byte, error) {
	switch format {
	case "yaml", "y":
		return yaml.Marshal(rep)
	case "json", "j":
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", cli.ErrUsage, format)
	}
}

// readDocument reads a composition from path, or stdin for "-".
func readDocument(path string) (*document.Composition, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	comp, err := document.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return comp, nil
}

func translateFile(path string, opts translate.Options) (*translate.Result, error) {
	comp, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	result, err := translate.Translate(comp, opts)
	if err != nil {
		return nil, fmt.Errorf("translate %s: %w", path, err)
	}
	return result, nil
}

// writeIssues prints one issue per line, codes highlighted.
func writeIssues(w io.Writer, cfg *MainConfig, list []issues.Issue) {
	code := cfg.painter(w, color.FgYellow, color.Bold)
	for _, i := range list {
		fmt.Fprintf(w, "%s %s\n", code("%s", i.Code), i.Description)
	}
}

func translateCmd(cfg *TranslateConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Translate.Parse(cc, args)
	if err != nil {
		cfg.Translate.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: translate requires 1 file, got %v", cli.ErrUsage, args)
	}
	opts, err := loadOptions(cfg.Options, cfg.Strict, cfg.Descriptions)
	if err != nil {
		return err
	}

	result, err := translateFile(args[0], opts)
	var unsupported *issues.UnsupportedError
	if errors.As(err, &unsupported) {
		writeIssues(os.Stderr, cfg.MainConfig, []issues.Issue{unsupported.Issue})
		return cli.ExitCodeErr(2)
	}
	if err != nil {
		return err
	}

	out, err := encodeReport(newReport(result), cfg.Format)
	if err != nil {
		return err
	}
	if _, err := cc.Out.Write(out); err != nil {
		return err
	}
	writeIssues(os.Stderr, cfg.MainConfig, result.Issues)
	return nil
}

func renderCmd(cfg *RenderConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Render.Parse(cc, args)
	if err != nil {
		cfg.Render.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: render requires 1 file, got %v", cli.ErrUsage, args)
	}
	opts, err := loadOptions(cfg.Options, cfg.Strict, cfg.Descriptions)
	if err != nil {
		return err
	}
	result, err := translateFile(args[0], opts)
	if err != nil {
		return err
	}

	commands, err := renderFrame(result, cfg.Frame, cfg.Progress)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cc.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(commands)
}

// renderFrame evaluates result at frame, or at progress when frame is
// negative.
func renderFrame(result *translate.Result, frame int, progress float64) ([]engine.DrawCommand, error) {
	eng := engine.NewEngine(translate.Options{})
	eng.Load(result)
	if frame >= 0 {
		eng.SetPlayhead(frame)
	} else {
		eng.SetProgress(progress)
	}
	commands, err := eng.Commands()
	if err != nil {
		return nil, fmt.Errorf("render frame %d: %w", eng.GetFrame(), err)
	}
	if commands == nil {
		commands = []engine.DrawCommand{}
	}
	return commands, nil
}

func diffCmd(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 files, got %v", cli.ErrUsage, args)
	}
	opts, err := loadOptions(cfg.Options, cfg.Strict, cfg.Descriptions)
	if err != nil {
		return err
	}

	var texts [2]string
	for i, path := range args {
		result, err := translateFile(path, opts)
		if err != nil {
			return err
		}
		out, err := encodeReport(newReport(result), "yaml")
		if err != nil {
			return err
		}
		texts[i] = string(out)
	}

	if writeDiff(cc.Out, cfg.MainConfig, texts[0], texts[1]) {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// writeDiff prints a line diff of a and b and reports whether they differ.
func writeDiff(w io.Writer, cfg *MainConfig, a, b string) bool {
	dmp := diffpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	added := cfg.painter(w, color.FgGreen)
	removed := cfg.painter(w, color.FgRed)
	differs := false
	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = strings.TrimSuffix(line, "\n")
			switch d.Type {
			case diffpatch.DiffInsert:
				differs = true
				fmt.Fprintln(w, added("+ %s", line))
			case diffpatch.DiffDelete:
				differs = true
				fmt.Fprintln(w, removed("- %s", line))
			case diffpatch.DiffEqual:
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	}
	return differs
}

func codesCmd(cfg *CodesConfig, cc *cli.Context, args []string) error {
	if _, err := cfg.Codes.Parse(cc, args); err != nil {
		cfg.Codes.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	writeCodes(cc.Out, cfg.MainConfig)
	return nil
}

func writeCodes(w io.Writer, cfg *MainConfig) {
	code := cfg.painter(w, color.FgYellow, color.Bold)
	for _, c := range issues.Codes() {
		fmt.Fprintf(w, "%s  %s\n", code("%s", c), c.Description())
	}
}
