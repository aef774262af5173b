package commands

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ocmf-tools/ocmf-go/pkg/pubkey"
	"github.com/ocmf-tools/ocmf-go/pkg/verify"
)

func newKeyCommand() *cobra.Command {
	var algorithm string

	cmd := &cobra.Command{
		Use:   "key <public-key>",
		Short: "Inspect a meter public key",
		Long: `Key decodes a DER public key given in hex or base64 and prints its
curve parameters. With --algorithm it also reports whether the key fits
that OCMF signature algorithm.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKey(args[0], algorithm, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&algorithm, "algorithm", "", "signature algorithm to match the key against")

	return cmd
}

func runKey(input, algorithm string, stdout io.Writer) error {
	key, err := pubkey.Parse(input)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "curve:        %s\n", key.Curve())
	fmt.Fprintf(stdout, "key size:     %d bits\n", key.KeySize())
	fmt.Fprintf(stdout, "block length: %d bytes\n", key.BlockLength())
	fmt.Fprintf(stdout, "key type:     %s\n", key.KeyType())
	fmt.Fprintf(stdout, "verifiable:   %t\n", verify.Available(key.Curve()))
	fmt.Fprintf(stdout, "der (hex):    %s\n", hex.EncodeToString(key.DER()))
	fmt.Fprintf(stdout, "der (base64): %s\n", key.Base64())

	if algorithm != "" {
		ok, err := key.MatchesAlgorithm(algorithm)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "matches %s: %t\n", algorithm, ok)
	}

	return nil
}
