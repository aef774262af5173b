package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ocmf-tools/ocmf-go/pkg/audit"
	"github.com/ocmf-tools/ocmf-go/pkg/ocmf"
)

func createTestAuditLog(t *testing.T, events []audit.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.cbor")

	logger, err := audit.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func testAuditEvents() []audit.Event {
	payload := &ocmf.Payload{
		GatewayIdentity: "KEBA_KCP30",
		GatewaySerial:   "17619300",
		Readings:        make([]ocmf.Reading, 2),
	}
	return []audit.Event{
		audit.RecordParsed("run-1", payload),
		audit.SignatureVerified("run-1", payload, true),
		audit.Failure("run-2", os.ErrNotExist),
	}
}

func TestExportToJSONL(t *testing.T) {
	path := createTestAuditLog(t, testAuditEvents())
	var buf bytes.Buffer

	err := runExport(path, "jsonl", "", audit.Filter{}, &buf)
	if err != nil {
		t.Fatalf("runExport failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}

	var event map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &event); err != nil {
		t.Fatalf("failed to parse line 1: %v", err)
	}
	if event["RunID"] != "run-1" {
		t.Errorf("expected RunID run-1, got %v", event["RunID"])
	}
	if event["Serial"] != "17619300" {
		t.Errorf("expected Serial 17619300, got %v", event["Serial"])
	}
}

func TestExportToCSV(t *testing.T) {
	path := createTestAuditLog(t, testAuditEvents())
	var buf bytes.Buffer

	err := runExport(path, "csv", "", audit.Filter{}, &buf)
	if err != nil {
		t.Fatalf("runExport failed: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "timestamp,run_id,kind,serial,gateway") {
		t.Errorf("expected CSV header, got: %s", out[:50])
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[2], "SIGNATURE_VERIFIED") {
		t.Errorf("expected the kind name in row 2: %s", lines[2])
	}
	if !strings.Contains(lines[2], "true") {
		t.Errorf("expected the verdict in row 2: %s", lines[2])
	}
}

func TestExportToFile(t *testing.T) {
	path := createTestAuditLog(t, testAuditEvents())
	outPath := filepath.Join(t.TempDir(), "out.jsonl")

	err := runExport(path, "jsonl", outPath, audit.Filter{}, io.Discard)
	if err != nil {
		t.Fatalf("runExport failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected output in the file")
	}
}

func TestExportFilterByRun(t *testing.T) {
	path := createTestAuditLog(t, testAuditEvents())
	var buf bytes.Buffer

	err := runExport(path, "jsonl", "", audit.Filter{RunID: "run-2"}, &buf)
	if err != nil {
		t.Fatalf("runExport failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "run-2") {
		t.Errorf("unexpected line: %s", lines[0])
	}
}

func TestExportFilterByKind(t *testing.T) {
	path := createTestAuditLog(t, testAuditEvents())
	kind := audit.KindSignatureVerified
	var buf bytes.Buffer

	err := runExport(path, "jsonl", "", audit.Filter{Kind: &kind}, &buf)
	if err != nil {
		t.Fatalf("runExport failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestAuditLog(t, testAuditEvents())

	err := runExport(path, "xml", "", audit.Filter{}, io.Discard)
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("expected 'unknown format' error, got: %v", err)
	}
}

func TestExportMissingLog(t *testing.T) {
	err := runExport(filepath.Join(t.TempDir(), "none.cbor"), "jsonl", "", audit.Filter{}, io.Discard)
	if err == nil {
		t.Fatal("expected error for a missing log file")
	}
}
