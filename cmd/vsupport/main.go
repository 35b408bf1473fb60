package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZenLiuCN/vsupport"
	"github.com/ZenLiuCN/vsupport/bridge"
	"github.com/ZenLiuCN/vsupport/sdk"
	"github.com/ZenLiuCN/vsupport/simhost"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkujhd/goloader"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()
	app.Name = "vsupport"
	app.Usage = "version adaptive host bridge tool"
	app.Description = "probe host versions, compile and inspect version bridges"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}},
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "TOML configuration file"},
	}
	app.Commands = []*cli.Command{
		{
			Name:   "probe",
			Action: probe,
			Usage:  "run item and inventory operations against a simulated host",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "version", Aliases: []string{"v"}, Value: simhost.V1_16, Usage: "simulated host version, one of " + strings.Join(simhost.Versions(), ", ")},
				&cli.StringSliceFlag{Name: "item", Aliases: []string{"i"}, Value: cli.NewStringSlice("minecraft:stone"), Usage: "item keys to register and look up"},
				&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Value: "Renamed", Usage: "new inventory title"},
				&cli.BoolFlag{Name: "dump", Usage: "dump resolved values"},
			},
		},
		{
			Name:   "compile",
			Action: compile,
			Usage:  "compile bridge sources to an object file. the arguments can be go sources or '.' for the working directory",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "pkg", Aliases: []string{"k"}, Value: "main", Usage: "package import path"},
				&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "bridge.o", Usage: "object file"},
			},
			Args: true,
		},
		{
			Name:   "symbols",
			Action: symbols,
			Usage:  "display symbols of object files",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "pkg", Aliases: []string{"k"}, Usage: "package path or default main"},
			},
			Args: true,
		},
		{
			Name:   "missing",
			Action: missing,
			Usage:  "display symbols of an object file this executable can not provide",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "pkg", Aliases: []string{"k"}, Usage: "package path or default main"},
			},
			Args: true,
		},
		{
			Name:   "config",
			Action: config,
			Usage:  "validate and display the configuration",
		},
	}
	app.Commands = append(app.Commands, sdk.Commands(logger)...)
	if err := app.Run(os.Args); err != nil {
		log.Fatalf("failure %s", err)
	}
}

func loadConfig(ctx *cli.Context) (cfg vsupport.Config, err error) {
	cfg = vsupport.DefaultConfig()
	if p := ctx.String("config"); p != "" {
		if cfg, err = vsupport.LoadConfig(p); err != nil {
			return
		}
	} else {
		cfg.ApplyEnv()
	}
	if ctx.Bool("debug") {
		cfg.Debug = true
	}
	return
}

func logger(ctx *cli.Context) (l zerolog.Logger, err error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return
	}
	return vsupport.NewLogger(cfg), nil
}

func probe(ctx *cli.Context) (err error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return
	}
	keys := ctx.StringSlice("item")
	host, err := simhost.New(ctx.String("version"), keys...)
	if err != nil {
		return
	}
	if err = vsupport.Attach(host, vsupport.WithConfig(cfg)); err != nil {
		return
	}
	s, err := vsupport.Instance()
	if err != nil {
		return
	}
	fmt.Printf("host version: %s\n", s.Version())
	for _, k := range append(keys, "core:unknown-key-xyz") {
		stack, ok := s.ItemStack(k)
		if !ok {
			fmt.Printf("%-24s absent\n", k)
			continue
		}
		key, ok := s.MinecraftKey(stack)
		if !ok {
			key = "<no reverse lookup>"
		}
		fmt.Printf("%-24s %s x%d -> %s\n", k, stack.Material(), stack.Amount(), key)
		if ctx.Bool("dump") {
			spew.Dump(stack)
		}
	}
	p := host.Join("probe")
	host.OpenChest(p, "Chest", 27)
	ok := s.UpdateInventoryName(ctx.String("title"), p)
	fmt.Printf("inventory retitled: %t, packets sent: %d\n", ok, len(p.GetHandle().PlayerConnection.Sent()))
	if ctx.Bool("dump") {
		spew.Dump(p.GetHandle().PlayerConnection.Sent())
	}
	return
}

func compile(ctx *cli.Context) (err error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return
	}
	l := vsupport.NewLogger(cfg)
	o := ctx.Args().Slice()
	if len(o) == 0 {
		return fmt.Errorf("missing target sources list")
	}
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	if len(o) == 1 && o[0] == "." {
		if o, err = bridge.Sources(wd); err != nil {
			return
		}
		l.Info().Strs("sources", o).Msg("found go sources at working directory")
	}
	out, err := filepath.Abs(ctx.String("out"))
	if err != nil {
		return
	}
	return bridge.Compile(l, wd, ctx.String("pkg"), out, o)
}

func symbols(ctx *cli.Context) (err error) {
	for _, f := range ctx.Args().Slice() {
		var v []string
		if v, err = bridge.Inspect(f, ctx.String("pkg")); err != nil {
			return
		}
		fmt.Printf("%s:\n\t%s\n", f, strings.Join(v, "\n\t"))
	}
	return
}

func missing(ctx *cli.Context) (err error) {
	syms, err := bridge.NewSymbols()
	if err != nil {
		return
	}
	pkg := ctx.String("pkg")
	if pkg == "" {
		pkg = "main"
	}
	for _, f := range ctx.Args().Slice() {
		var l *goloader.Linker
		if l, err = goloader.ReadObj(f, pkg); err != nil {
			return
		}
		fmt.Printf("%s:\n\t%s\n", f, strings.Join(goloader.UnresolvedSymbols(l, syms), "\n\t"))
	}
	return
}

func config(ctx *cli.Context) (err error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return
	}
	spew.Dump(cfg)
	return
}
