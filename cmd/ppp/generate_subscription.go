package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli"

	ppp "github.com/ectf/ppp-crypto"
)

var cmdGenerateSubscription = cli.Command{
	Name:  "generate-subscription",
	Usage: "build a subscription for one device, channel and time range",
	ArgsUsage: "<secrets-file> <subscription-file> <device-id> " +
		"<start> <end> <channel>",
	Flags: []cli.Flag{
		cli.BoolFlag{Name: "force", Usage: "overwrite subscription-file if it exists"},
		cli.BoolFlag{Name: "embeddable", Usage: "write the 2080-byte plaintext ValidSubscription instead of the signed SubscriptionUpdate"},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 6 {
			return cli.NewExitError(
				"usage: generate-subscription <secrets-file> <subscription-file> <device-id> <start> <end> <channel>", 1)
		}
		secretsPath := c.Args().Get(0)
		subPath := c.Args().Get(1)

		deviceID, err := strconv.ParseUint(c.Args().Get(2), 10, 32)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("invalid device id: %v", err), 1)
		}
		start, err := strconv.ParseUint(c.Args().Get(3), 10, 64)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("invalid start: %v", err), 1)
		}
		end, err := strconv.ParseUint(c.Args().Get(4), 10, 64)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("invalid end: %v", err), 1)
		}
		channel, err := strconv.ParseUint(c.Args().Get(5), 10, 32)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("invalid channel: %v", err), 1)
		}

		raw, readErr := os.ReadFile(secretsPath)
		if readErr != nil {
			return cli.NewExitError(fmt.Sprintf("reading %s: %v", secretsPath, readErr), 1)
		}
		secrets, desErr := ppp.DeserializeSecrets(raw)
		if desErr != nil {
			return cli.NewExitError(fmt.Sprintf("parsing %s: %v", secretsPath, desErr), 1)
		}

		unlock, lockErr := lockTarget(subPath)
		if lockErr != nil {
			return cli.NewExitError(lockErr.Error(), 1)
		}
		defer unlock()

		var wire []byte
		if c.Bool("embeddable") {
			_, w, buildErr := ppp.BuildEmbeddableSubscription(secrets, start, end, uint32(channel))
			if buildErr != nil {
				return cli.NewExitError(fmt.Sprintf("building subscription: %v", buildErr), 1)
			}
			wire = w
		} else {
			_, w, buildErr := ppp.BuildSubscriptionUpdate(secrets, uint32(deviceID), start, end, uint32(channel))
			if buildErr != nil {
				return cli.NewExitError(fmt.Sprintf("building subscription: %v", buildErr), 1)
			}
			wire = w
		}

		if err := writeFile(subPath, wire, c.Bool("force")); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		fmt.Fprintf(os.Stderr, "wrote %s (%d bytes)\n", subPath, len(wire))
		return nil
	},
}
