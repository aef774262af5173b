package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ocmf-tools/ocmf-go/pkg/audit"
)

func newExportCommand() *cobra.Command {
	var format string
	var output string
	var runID string
	var kindName string
	var serial string

	cmd := &cobra.Command{
		Use:   "export <audit-log>",
		Short: "Export an audit log to jsonl or csv",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := audit.Filter{
				RunID:  runID,
				Serial: serial,
			}
			if kindName != "" {
				kind, err := audit.ParseKind(kindName)
				if err != nil {
					return err
				}
				filter.Kind = &kind
			}
			return runExport(args[0], format, output, filter, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&format, "format", "jsonl", "output format (jsonl, csv)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&runID, "run", "", "only events of this run")
	cmd.Flags().StringVar(&kindName, "kind", "", "only events of this kind")
	cmd.Flags().StringVar(&serial, "serial", "", "only events for this device serial")

	return cmd
}

func runExport(path, format, output string, filter audit.Filter, stdout io.Writer) error {
	reader, err := audit.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer reader.Close()

	w := stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportJSONL(reader *audit.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *audit.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "run_id", "kind", "serial", "gateway", "readings", "verified", "issues", "message"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		verified := ""
		if event.Verified != nil {
			verified = strconv.FormatBool(*event.Verified)
		}

		row := []string{
			event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			event.RunID,
			event.Kind.String(),
			event.Serial,
			event.Gateway,
			strconv.Itoa(event.Readings),
			verified,
			strings.Join(event.Issues, ";"),
			event.Message,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
