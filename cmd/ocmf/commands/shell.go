package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/ocmf-tools/ocmf-go/pkg/audit"
	"github.com/ocmf-tools/ocmf-go/pkg/eichrecht"
	"github.com/ocmf-tools/ocmf-go/pkg/keyring"
	"github.com/ocmf-tools/ocmf-go/pkg/ocmf"
	"github.com/ocmf-tools/ocmf-go/pkg/pubkey"
	"github.com/ocmf-tools/ocmf-go/pkg/verify"
)

func newShellCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session for working through records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(root)
		},
	}
}

// shell holds the state of one interactive session. A pasted record
// stays around as the target for subsequent verify and check commands.
type shell struct {
	rl     *readline.Instance
	ring   *keyring.Keyring
	key    *pubkey.PublicKey
	logger audit.Logger
	runID  string
	last   recordInput
}

func runShell(root *rootOptions) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "ocmf> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	logger, closeAudit, err := root.openAudit()
	if err != nil {
		return err
	}
	defer closeAudit()

	ring, err := root.loadKeyring()
	if err != nil {
		return err
	}

	s := &shell{
		rl:     rl,
		ring:   ring,
		logger: logger,
		runID:  audit.NewRunID(),
	}
	s.printHelp()
	s.run()
	return nil
}

func (s *shell) run() {
	for {
		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		rest := strings.TrimSpace(input[len(parts[0]):])

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "parse", "p":
			s.cmdParse(rest)

		case "verify", "v":
			s.cmdVerify(rest)

		case "check", "c":
			s.cmdCheck(rest)

		case "key":
			s.cmdKey(rest)

		case "keyring":
			s.cmdKeyring(rest)

		case "quit", "exit", "q":
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return

		default:
			if strings.HasPrefix(input, ocmf.FormatTag+"|") {
				s.cmdRun(input)
				continue
			}
			if _, err := os.Stat(input); err == nil {
				s.cmdRun(input)
				continue
			}
			fmt.Fprintf(s.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *shell) printHelp() {
	fmt.Fprintln(s.rl.Stdout(), `
OCMF Shell Commands:
  parse <record|file>   - Parse a record or container and print it
  verify [record|file]  - Verify signatures (defaults to the last record)
  check [record|file]   - Check calibration-law compliance
  key [<key>|clear]     - Set, show, or clear the session public key
  keyring <path>        - Load a YAML trust list
  help                  - Show this help
  quit                  - Exit

Pasting a record (OCMF|...) or the path of a transparency container
runs the whole pipeline: parse, verify, check.`)
}

// cmdRun puts a pasted record or container path through the whole
// pipeline.
func (s *shell) cmdRun(input string) {
	inputs, err := loadRecords(input, true)
	if err != nil {
		s.logger.Log(audit.Failure(s.runID, err))
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}

	for _, in := range inputs {
		s.logger.Log(audit.RecordParsed(s.runID, in.Record.Payload))
		printRecord(s.rl.Stdout(), in.Record)
		s.verifyRecord(in)
		s.checkRecord(in)
	}
	s.last = inputs[len(inputs)-1]
}

func (s *shell) cmdParse(rest string) {
	inputs, ok := s.resolveTargets(rest)
	if !ok {
		return
	}
	for _, in := range inputs {
		s.logger.Log(audit.RecordParsed(s.runID, in.Record.Payload))
		printRecord(s.rl.Stdout(), in.Record)
	}
}

func (s *shell) cmdVerify(rest string) {
	inputs, ok := s.resolveTargets(rest)
	if !ok {
		return
	}
	for _, in := range inputs {
		s.verifyRecord(in)
	}
}

func (s *shell) cmdCheck(rest string) {
	inputs, ok := s.resolveTargets(rest)
	if !ok {
		return
	}

	if len(inputs) == 2 {
		begin, end := orderPair(inputs[0], inputs[1])
		issues := eichrecht.CheckTransaction(begin.Record.Payload, end.Record.Payload)
		s.logger.Log(audit.ComplianceChecked(s.runID, end.Record.Payload, issues))
		printIssues(s.rl.Stdout(), "transaction", issues)
		return
	}

	for _, in := range inputs {
		s.checkRecord(in)
	}
}

func (s *shell) cmdKey(rest string) {
	switch rest {
	case "":
		if s.key == nil {
			fmt.Fprintln(s.rl.Stdout(), "No session key set")
			return
		}
		fmt.Fprintf(s.rl.Stdout(), "Session key: %s, %d bits\n", s.key.Curve(), s.key.KeySize())

	case "clear":
		s.key = nil
		fmt.Fprintln(s.rl.Stdout(), "Session key cleared")

	default:
		key, err := pubkey.Parse(rest)
		if err != nil {
			fmt.Fprintf(s.rl.Stdout(), "Invalid key: %v\n", err)
			return
		}
		s.key = key
		fmt.Fprintf(s.rl.Stdout(), "Session key set: %s\n", key.Curve())
	}
}

func (s *shell) cmdKeyring(rest string) {
	if rest == "" {
		if s.ring == nil {
			fmt.Fprintln(s.rl.Stdout(), "No keyring loaded")
			return
		}
		fmt.Fprintf(s.rl.Stdout(), "Keyring: %d key(s) for %s\n",
			s.ring.Len(), strings.Join(s.ring.Serials(), ", "))
		return
	}

	ring, err := keyring.Load(rest)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	s.ring = ring
	fmt.Fprintf(s.rl.Stdout(), "Loaded %d key(s)\n", ring.Len())
}

// resolveTargets loads the records named by rest, falling back to the
// last record of the session when rest is empty.
func (s *shell) resolveTargets(rest string) ([]recordInput, bool) {
	if rest == "" {
		if s.last.Record == nil {
			fmt.Fprintln(s.rl.Stdout(), "No record yet: paste one or name a file")
			return nil, false
		}
		return []recordInput{s.last}, true
	}

	inputs, err := loadRecords(rest, true)
	if err != nil {
		s.logger.Log(audit.Failure(s.runID, err))
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return nil, false
	}
	s.last = inputs[len(inputs)-1]
	return inputs, true
}

// keyFor resolves the verification key, the session key taking
// precedence over keyring and container.
func (s *shell) keyFor(in recordInput) (*pubkey.PublicKey, string, error) {
	if s.key != nil {
		return s.key, "session", nil
	}
	return resolveKey("", s.ring, in)
}

func (s *shell) verifyRecord(in recordInput) {
	key, source, err := s.keyFor(in)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}

	valid, err := verify.Verify(in.Record, key)
	if err != nil {
		s.logger.Log(audit.Failure(s.runID, err))
		fmt.Fprintf(s.rl.Stdout(), "Verification error: %v\n", err)
		return
	}
	s.logger.Log(audit.SignatureVerified(s.runID, in.Record.Payload, valid))

	if valid {
		fmt.Fprintf(s.rl.Stdout(), "Signature valid (key from %s)\n", source)
	} else {
		fmt.Fprintln(s.rl.Stdout(), "Signature INVALID")
	}
}

func (s *shell) checkRecord(in recordInput) {
	issues := eichrecht.CheckPayload(in.Record.Payload)
	s.logger.Log(audit.ComplianceChecked(s.runID, in.Record.Payload, issues))
	printIssues(s.rl.Stdout(), in.describe(), issues)
}
