package commands

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ocmf-tools/ocmf-go/pkg/audit"
	"github.com/ocmf-tools/ocmf-go/pkg/verify"
)

func newVerifyCommand(root *rootOptions) *cobra.Command {
	var keyText string
	var all bool

	cmd := &cobra.Command{
		Use:   "verify <record|file>",
		Short: "Verify record signatures",
		Long: `Verify checks the cryptographic signature of each record against its
public key. The key is taken from --key, the keyring, the transparency
container, or the record itself, in that order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(root, args[0], keyText, all, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&keyText, "key", "k", "", "public key, hex or base64 DER")
	cmd.Flags().BoolVar(&all, "all", false, "process every record in an XML container")

	return cmd
}

func runVerify(root *rootOptions, input, keyText string, all bool, stdout io.Writer) error {
	logger, closeAudit, err := root.openAudit()
	if err != nil {
		return err
	}
	defer closeAudit()
	runID := audit.NewRunID()

	ring, err := root.loadKeyring()
	if err != nil {
		return err
	}

	inputs, err := loadRecords(input, all)
	if err != nil {
		logger.Log(audit.Failure(runID, err))
		return err
	}

	failed := false
	for _, in := range inputs {
		key, source, err := resolveKey(keyText, ring, in)
		if err != nil {
			logger.Log(audit.Failure(runID, err))
			return err
		}
		logrus.Debugf("verifying %s with key from %s", in.describe(), source)

		valid, err := verify.Verify(in.Record, key)
		if err != nil {
			logger.Log(audit.Failure(runID, err))
			return fmt.Errorf("%s: %w", in.describe(), err)
		}
		logger.Log(audit.SignatureVerified(runID, in.Record.Payload, valid))

		if valid {
			fmt.Fprintf(stdout, "%s: signature valid (key from %s)\n", in.describe(), source)
		} else {
			failed = true
			fmt.Fprintf(stdout, "%s: signature INVALID\n", in.describe())
		}
	}

	if failed {
		return ErrVerdictFailed
	}
	return nil
}
