// Command ppp is the thin CLI wrapper around the ectf-workshop satellite-TV
// crypto core: it parses flags, reads and writes files, and calls into
// github.com/ectf/ppp-crypto for every cryptographic decision.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	ppp "github.com/ectf/ppp-crypto"
)

func main() {
	app := cli.NewApp()
	app.Name = "ppp"
	app.Usage = "host-side crypto toolchain for the satellite-TV subscription scheme"

	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "verbose, v", Usage: "log diagnostics to stderr"},
	}

	app.Before = func(c *cli.Context) error {
		if c.Bool("verbose") {
			ppp.EnableLogging()
		}
		return nil
	}

	app.Commands = []cli.Command{
		cmdGenerateSecrets,
		cmdGenerateSubscription,
		cmdEmbedSecretsHeader,
		cmdEncodeFrame,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
