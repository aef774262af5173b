package commands

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ocmf-tools/ocmf-go/pkg/audit"
)

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand()

	for _, name := range []string{"parse", "verify", "check", "key", "export", "shell"} {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestRootRunsKeySubcommand(t *testing.T) {
	root := NewRootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"key", kebaKeyHex})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(buf.String(), "secp256r1") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestRootVerifyReportsVerdict(t *testing.T) {
	tampered := strings.Replace(kebaRecord, `"RV":0.2597`, `"RV":777.7`, 1)
	root := NewRootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"verify", "--key", kebaKeyHex, tampered})

	err := root.Execute()
	if !errors.Is(err, ErrVerdictFailed) {
		t.Fatalf("expected ErrVerdictFailed, got %v", err)
	}
}

func TestOpenAuditDefaultsToNoop(t *testing.T) {
	logger, closeAudit, err := (&rootOptions{}).openAudit()
	if err != nil {
		t.Fatalf("openAudit failed: %v", err)
	}
	defer closeAudit()

	if _, ok := logger.(audit.NoopLogger); !ok {
		t.Errorf("expected a NoopLogger, got %T", logger)
	}
}

func TestLoadKeyringUnset(t *testing.T) {
	ring, err := (&rootOptions{}).loadKeyring()
	if err != nil {
		t.Fatalf("loadKeyring failed: %v", err)
	}
	if ring != nil {
		t.Errorf("expected nil keyring, got %v", ring)
	}
}
