package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli"

	ppp "github.com/ectf/ppp-crypto"
)

var cmdGenerateSecrets = cli.Command{
	Name:      "generate-secrets",
	Usage:     "generate a fresh deployment secrets bundle",
	ArgsUsage: "<channels> <secrets-file>",
	Description: "channels is a comma-separated list of channel ids; " +
		"channel 0 is always included",
	Flags: []cli.Flag{
		cli.BoolFlag{Name: "force", Usage: "overwrite secrets-file if it exists"},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return cli.NewExitError("usage: generate-secrets <channels> <secrets-file>", 1)
		}
		channels, err := parseChannelList(c.Args().Get(0))
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		secretsPath := c.Args().Get(1)

		secrets, genErr := ppp.GenerateSecrets(channels)
		if genErr != nil {
			return cli.NewExitError(fmt.Sprintf("generating secrets: %v", genErr), 1)
		}
		buf, serErr := secrets.Serialize()
		if serErr != nil {
			return cli.NewExitError(fmt.Sprintf("serializing secrets: %v", serErr), 1)
		}
		if err := writeFile(secretsPath, buf, c.Bool("force")); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		fmt.Fprintf(os.Stderr, "wrote %s (%d channels)\n", secretsPath, len(secrets.ChannelKeys))
		return nil
	},
}

func parseChannelList(s string) ([]uint32, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]uint32, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid channel id %q: %w", p, err)
		}
		out = append(out, uint32(v))
	}
	return out, nil
}
