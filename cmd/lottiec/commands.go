package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "lottiec").
		WithSynopsis("lottiec [opts] command [opts]").
		WithDescription("lottiec translates Lottie documents into composition scenes.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return lottiecMain(cfg, cc, args)
		}).
		WithSubs(
			TranslateCommand(cfg),
			RenderCommand(cfg),
			DiffCommand(cfg),
			CodesCommand(cfg))
}

func TranslateCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &TranslateConfig{MainConfig: mainCfg, Format: "yaml"}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Translate, "translate").
		WithAliases("t", "tr").
		WithSynopsis("translate [-strict] [-descriptions] [-format yaml|json] [-options file] file").
		WithDescription("translate a document and print its scene and issues").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return translateCmd(cfg, cc, args)
		})
}

func RenderCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &RenderConfig{MainConfig: mainCfg, Frame: -1}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts, &cli.Opt{
		Name:        "progress",
		Description: "root progress to render, 0 to 1",
		Type:        cli.NamedFuncOpt(cfg.progressOpt, "(0..1)"),
	})
	return cli.NewCommandAt(&cfg.Render, "render").
		WithAliases("r").
		WithSynopsis("render [-progress p | -frame n] file").
		WithDescription("print the draw commands of one frame").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return renderCmd(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d", "di").
		WithSynopsis("diff [opts] a b").
		WithDescription("diff the translations of two documents").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diffCmd(cfg, cc, args)
		})
}

func CodesCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CodesConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Codes, "codes").
		WithSynopsis("codes").
		WithDescription("list the issue codes a translation can report").
		WithRun(func(cc *cli.Context, args []string) error {
			return codesCmd(cfg, cc, args)
		})
}
