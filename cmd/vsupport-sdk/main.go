// Command vsupport-sdk prepares the go sdk so the bridge linker and the vsupport tool can build.
//
//	go run github.com/ZenLiuCN/vsupport/cmd/vsupport-sdk prepare
package main

import (
	"log"
	"os"

	"github.com/ZenLiuCN/vsupport"
	"github.com/ZenLiuCN/vsupport/sdk"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()
	app.Name = "vsupport-sdk"
	app.Usage = "go sdk preparation for bridges"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}},
	}
	app.Commands = sdk.Commands(func(ctx *cli.Context) (zerolog.Logger, error) {
		cfg := vsupport.DefaultConfig()
		cfg.ApplyEnv()
		cfg.Debug = cfg.Debug || ctx.Bool("debug")
		return vsupport.NewLogger(cfg), nil
	})
	if err := app.Run(os.Args); err != nil {
		log.Fatalf("failure %s", err)
	}
}
