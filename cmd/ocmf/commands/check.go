package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ocmf-tools/ocmf-go/pkg/audit"
	"github.com/ocmf-tools/ocmf-go/pkg/eichrecht"
)

func newCheckCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <record|file> [<end-record>]",
		Short: "Check calibration-law compliance",
		Long: `Check evaluates the Eichrecht rules for billing-grade metering. With
two inputs they are treated as the begin and end of one transaction;
a container holding exactly two records is paired the same way. Every
other input is checked record by record.

Warnings alone leave the verdict compliant; errors fail it.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(root, args, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runCheck(root *rootOptions, args []string, stdout io.Writer) error {
	logger, closeAudit, err := root.openAudit()
	if err != nil {
		return err
	}
	defer closeAudit()
	runID := audit.NewRunID()

	var issues []eichrecht.Issue
	switch {
	case len(args) == 2:
		begin, err := loadSingle(args[0])
		if err != nil {
			logger.Log(audit.Failure(runID, err))
			return err
		}
		end, err := loadSingle(args[1])
		if err != nil {
			logger.Log(audit.Failure(runID, err))
			return err
		}
		issues = eichrecht.CheckTransaction(begin.Record.Payload, end.Record.Payload)
		logger.Log(audit.ComplianceChecked(runID, end.Record.Payload, issues))
		printIssues(stdout, describePair(begin, end), issues)

	default:
		inputs, err := loadRecords(args[0], true)
		if err != nil {
			logger.Log(audit.Failure(runID, err))
			return err
		}

		if len(inputs) == 2 {
			begin, end := orderPair(inputs[0], inputs[1])
			issues = eichrecht.CheckTransaction(begin.Record.Payload, end.Record.Payload)
			logger.Log(audit.ComplianceChecked(runID, end.Record.Payload, issues))
			printIssues(stdout, describePair(begin, end), issues)
			break
		}

		for _, in := range inputs {
			found := eichrecht.CheckPayload(in.Record.Payload)
			logger.Log(audit.ComplianceChecked(runID, in.Record.Payload, found))
			printIssues(stdout, in.describe(), found)
			issues = append(issues, found...)
		}
	}

	errs := eichrecht.Errors(issues)
	warnings := len(issues) - len(errs)
	switch {
	case len(errs) > 0:
		fmt.Fprintf(stdout, "NOT compliant: %d error(s), %d warning(s)\n", len(errs), warnings)
		return ErrVerdictFailed
	case warnings > 0:
		fmt.Fprintf(stdout, "compliant with %d warning(s)\n", warnings)
	default:
		fmt.Fprintln(stdout, "compliant")
	}
	return nil
}

func loadSingle(input string) (recordInput, error) {
	inputs, err := loadRecords(input, false)
	if err != nil {
		return recordInput{}, err
	}
	return inputs[0], nil
}

// orderPair puts the two records of a container into begin/end order.
// Containers label their entries with a context attribute; without one
// the document order stands.
func orderPair(a, b recordInput) (recordInput, recordInput) {
	if strings.Contains(strings.ToLower(a.Context), "end") &&
		strings.Contains(strings.ToLower(b.Context), "begin") {
		return b, a
	}
	return a, b
}

func describePair(begin, end recordInput) string {
	if begin.Source == end.Source {
		return begin.Source
	}
	return fmt.Sprintf("%s .. %s", begin.describe(), end.describe())
}

func printIssues(w io.Writer, source string, issues []eichrecht.Issue) {
	if len(issues) == 0 {
		fmt.Fprintf(w, "%s: no findings\n", source)
		return
	}
	fmt.Fprintf(w, "%s:\n", source)
	for _, issue := range issues {
		fmt.Fprintf(w, "  %s: %s\n", issue.Severity, issue)
	}
}
