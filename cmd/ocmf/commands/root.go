// Package commands implements the subcommands of the ocmf tool.
package commands

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ocmf-tools/ocmf-go/pkg/audit"
	"github.com/ocmf-tools/ocmf-go/pkg/keyring"
)

// ErrVerdictFailed marks a failed verification or compliance verdict.
// The caller maps it to a distinct exit status.
var ErrVerdictFailed = errors.New("verification or compliance failed")

type rootOptions struct {
	verbose  bool
	keyring  string
	auditLog string
}

// NewRootCommand builds the ocmf command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "ocmf",
		Short: "Verify OCMF metering records and check calibration-law compliance",
		Long: `ocmf parses Open Charge Metering Format records, verifies their
signatures, and checks German calibration-law (Eichrecht) rules.

Inputs are auto-detected: a record string (plain or hex-encoded) is
parsed directly, the path of a transparency XML container is read from
disk.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug diagnostics")
	cmd.PersistentFlags().StringVar(&opts.keyring, "keyring", "", "YAML trust list mapping device serials to public keys")
	cmd.PersistentFlags().StringVar(&opts.auditLog, "audit", "", "append audit events to this CBOR log file")

	cmd.AddCommand(
		newParseCommand(opts),
		newVerifyCommand(opts),
		newCheckCommand(opts),
		newKeyCommand(),
		newExportCommand(),
		newShellCommand(opts),
	)

	return cmd
}

// openAudit returns the audit sink for this invocation together with a
// close function. Without --audit the sink discards everything.
func (o *rootOptions) openAudit() (audit.Logger, func(), error) {
	if o.auditLog == "" {
		return audit.NoopLogger{}, func() {}, nil
	}
	logger, err := audit.NewFileLogger(o.auditLog)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	return logger, func() { _ = logger.Close() }, nil
}

// loadKeyring loads the configured trust list, nil when none is set.
func (o *rootOptions) loadKeyring() (*keyring.Keyring, error) {
	if o.keyring == "" {
		return nil, nil
	}
	return keyring.Load(o.keyring)
}
