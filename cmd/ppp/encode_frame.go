package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli"

	ppp "github.com/ectf/ppp-crypto"
)

var cmdEncodeFrame = cli.Command{
	Name:      "encode-frame",
	Usage:     "encode one broadcast frame into a signed frame packet",
	ArgsUsage: "<secrets-file> <channel> <frame-file> <timestamp> <packet-file>",
	Flags: []cli.Flag{
		cli.BoolFlag{Name: "force", Usage: "overwrite packet-file if it exists"},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 5 {
			return cli.NewExitError(
				"usage: encode-frame <secrets-file> <channel> <frame-file> <timestamp> <packet-file>", 1)
		}
		secretsPath := c.Args().Get(0)
		channel, err := strconv.ParseUint(c.Args().Get(1), 10, 32)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("invalid channel: %v", err), 1)
		}
		framePath := c.Args().Get(2)
		timestamp, err := strconv.ParseUint(c.Args().Get(3), 10, 64)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("invalid timestamp: %v", err), 1)
		}
		packetPath := c.Args().Get(4)

		raw, readErr := os.ReadFile(secretsPath)
		if readErr != nil {
			return cli.NewExitError(fmt.Sprintf("reading %s: %v", secretsPath, readErr), 1)
		}
		secrets, desErr := ppp.DeserializeSecrets(raw)
		if desErr != nil {
			return cli.NewExitError(fmt.Sprintf("parsing %s: %v", secretsPath, desErr), 1)
		}

		frame, frameErr := os.ReadFile(framePath)
		if frameErr != nil {
			return cli.NewExitError(fmt.Sprintf("reading %s: %v", framePath, frameErr), 1)
		}

		_, wire, encErr := ppp.EncodeFrame(secrets, uint32(channel), frame, timestamp)
		if encErr != nil {
			return cli.NewExitError(fmt.Sprintf("encoding frame (%s): %v", encErr.Kind(), encErr), 1)
		}

		if err := writeFile(packetPath, wire, c.Bool("force")); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		fmt.Fprintf(os.Stderr, "wrote %s (%d bytes)\n", packetPath, len(wire))
		return nil
	},
}
