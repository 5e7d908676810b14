package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli"

	ppp "github.com/ectf/ppp-crypto"
)

// cmdEmbedSecretsHeader renders an embeddable ValidSubscription as a C
// header for the decoder's build, generalizing the reference's
// gen_secrets_c.py array-emission to the subscription record rather than
// the whole secrets struct (only a device's own subscription is ever
// burned into a decoder, never the deployment secrets).
var cmdEmbedSecretsHeader = cli.Command{
	Name:      "embed-secrets-header",
	Usage:     "render an embeddable subscription as a C header",
	ArgsUsage: "<secrets-file> <start> <end> <channel> <header-file>",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "symbol", Value: "SUBSCRIPTION", Usage: "C array identifier"},
		cli.BoolFlag{Name: "force", Usage: "overwrite header-file if it exists"},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 5 {
			return cli.NewExitError(
				"usage: embed-secrets-header <secrets-file> <start> <end> <channel> <header-file>", 1)
		}
		secretsPath := c.Args().Get(0)
		start, err := strconv.ParseUint(c.Args().Get(1), 10, 64)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("invalid start: %v", err), 1)
		}
		end, err := strconv.ParseUint(c.Args().Get(2), 10, 64)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("invalid end: %v", err), 1)
		}
		channel, err := strconv.ParseUint(c.Args().Get(3), 10, 32)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("invalid channel: %v", err), 1)
		}
		headerPath := c.Args().Get(4)

		raw, readErr := os.ReadFile(secretsPath)
		if readErr != nil {
			return cli.NewExitError(fmt.Sprintf("reading %s: %v", secretsPath, readErr), 1)
		}
		secrets, desErr := ppp.DeserializeSecrets(raw)
		if desErr != nil {
			return cli.NewExitError(fmt.Sprintf("parsing %s: %v", secretsPath, desErr), 1)
		}

		_, wire, buildErr := ppp.BuildEmbeddableSubscription(secrets, start, end, uint32(channel))
		if buildErr != nil {
			return cli.NewExitError(fmt.Sprintf("building subscription: %v", buildErr), 1)
		}

		header := renderCHeader(c.String("symbol"), wire)
		if err := writeFile(headerPath, []byte(header), c.Bool("force")); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", headerPath)
		return nil
	},
}

func renderCHeader(symbol string, data []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// Generated by ppp embed-secrets-header. Do not edit.\n")
	fmt.Fprintf(&b, "#ifndef PPP_%s_H\n#define PPP_%s_H\n\n", symbol, symbol)
	fmt.Fprintf(&b, "#include <stdint.h>\n\n")
	fmt.Fprintf(&b, "#define %s_LEN %d\n\n", symbol, len(data))
	fmt.Fprintf(&b, "static const uint8_t %s[%s_LEN] = {\n", symbol, symbol)
	for i, byteVal := range data {
		if i%12 == 0 {
			b.WriteString("    ")
		}
		fmt.Fprintf(&b, "0x%02x,", byteVal)
		if i%12 == 11 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	if len(data)%12 != 0 {
		b.WriteString("\n")
	}
	b.WriteString("};\n\n")
	fmt.Fprintf(&b, "#endif // PPP_%s_H\n", symbol)
	return b.String()
}
