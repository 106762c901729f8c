package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/inamate/inamate/lottiegen/internal/translate"
)

type MainConfig struct {
	Color   bool `cli:"name=color desc='force colored output'"`
	NoColor bool `cli:"name=nocolor desc='never color output'"`

	Main *cli.Command
}

// colorize reports whether output to w gets ANSI colors.
func (cfg *MainConfig) colorize(w io.Writer) bool {
	switch {
	case cfg.NoColor:
		return false
	case cfg.Color:
		return true
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// painter returns a Sprintf for attrs, or plain Sprintf when w is not
// colored.
func (cfg *MainConfig) painter(w io.Writer, attrs ...color.Attribute) func(string, ...any) string {
	if !cfg.colorize(w) {
		return fmt.Sprintf
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.SprintfFunc()
}

// loadOptions reads the translate options file, if any, and applies the
// flags over it.
func loadOptions(path string, strict, descriptions bool) (translate.Options, error) {
	var opts translate.Options
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return opts, fmt.Errorf("read options: %w", err)
		}
		if err := yaml.Unmarshal(data, &opts); err != nil {
			return opts, fmt.Errorf("%w: options file %s: %w", cli.ErrUsage, path, err)
		}
	}
	if strict {
		opts.StrictTranslation = true
	}
	if descriptions {
		opts.AddCodegenDescriptions = true
	}
	return opts, nil
}

type TranslateConfig struct {
	*MainConfig
	Strict       bool   `cli:"name=strict desc='fail on the first unsupported feature'"`
	Descriptions bool   `cli:"name=descriptions desc='annotate nodes with descriptions'"`
	Options      string `cli:"name=options desc='YAML file of translate options'"`
	Format       string `cli:"name=format desc='scene output format: yaml or json'"`

	Translate *cli.Command
}

type RenderConfig struct {
	*MainConfig
	Strict       bool   `cli:"name=strict desc='fail on the first unsupported feature'"`
	Descriptions bool   `cli:"name=descriptions desc='annotate nodes with descriptions'"`
	Options      string `cli:"name=options desc='YAML file of translate options'"`
	Frame        int    `cli:"name=frame desc='frame to render, from the in point'"`
	Progress     float64

	Render *cli.Command
}

func (cfg *RenderConfig) progressOpt(_ *cli.Context, a string) (any, error) {
	p, err := strconv.ParseFloat(a, 64)
	if err != nil || p < 0 || p > 1 {
		return nil, fmt.Errorf("%w: progress %q is not a number between 0 and 1", cli.ErrUsage, a)
	}
	cfg.Progress = p
	return p, nil
}

type DiffConfig struct {
	*MainConfig
	Strict       bool   `cli:"name=strict desc='fail on the first unsupported feature'"`
	Descriptions bool   `cli:"name=descriptions desc='annotate nodes with descriptions'"`
	Options      string `cli:"name=options desc='YAML file of translate options'"`

	Diff *cli.Command
}

type CodesConfig struct {
	*MainConfig

	Codes *cli.Command
}
