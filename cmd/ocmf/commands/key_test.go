package commands

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunKey(t *testing.T) {
	var buf bytes.Buffer

	err := runKey(kebaKeyHex, "", &buf)
	if err != nil {
		t.Fatalf("runKey failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"curve:        secp256r1",
		"key size:     256 bits",
		"block length: 32 bytes",
		"verifiable:   true",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, strings.ToLower(kebaKeyHex)) {
		t.Errorf("output missing the DER hex:\n%s", out)
	}
}

func TestRunKeyMatchingAlgorithm(t *testing.T) {
	var buf bytes.Buffer

	err := runKey(kebaKeyHex, "ECDSA-secp256r1-SHA256", &buf)
	if err != nil {
		t.Fatalf("runKey failed: %v", err)
	}
	if !strings.Contains(buf.String(), "matches ECDSA-secp256r1-SHA256: true") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestRunKeyMismatchedAlgorithm(t *testing.T) {
	var buf bytes.Buffer

	err := runKey(kebaKeyHex, "ECDSA-secp384r1-SHA256", &buf)
	if err != nil {
		t.Fatalf("runKey failed: %v", err)
	}
	if !strings.Contains(buf.String(), "matches ECDSA-secp384r1-SHA256: false") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestRunKeyInvalid(t *testing.T) {
	var buf bytes.Buffer

	if err := runKey("not-a-key", "", &buf); err == nil {
		t.Fatal("expected an error for an unparsable key")
	}
}
