package audit

import (
	"testing"

	"github.com/ocmf-tools/ocmf-go/pkg/eichrecht"
	"github.com/ocmf-tools/ocmf-go/pkg/ocmf"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindRecordParsed, "RECORD_PARSED"},
		{KindSignatureVerified, "SIGNATURE_VERIFIED"},
		{KindComplianceChecked, "COMPLIANCE_CHECKED"},
		{KindError, "ERROR"},
		{Kind(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.kind.String()
		if got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		name string
		want Kind
	}{
		{"RECORD_PARSED", KindRecordParsed},
		{"signature_verified", KindSignatureVerified},
		{"Compliance_Checked", KindComplianceChecked},
		{"error", KindError},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.name)
		if err != nil {
			t.Errorf("ParseKind(%q) failed: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	if _, err := ParseKind("bogus"); err == nil {
		t.Error("ParseKind accepted an unknown name")
	}
}

func TestKindValues(t *testing.T) {
	// Verify explicit values for wire stability
	if KindRecordParsed != 0 {
		t.Errorf("KindRecordParsed = %d, want 0", KindRecordParsed)
	}
	if KindSignatureVerified != 1 {
		t.Errorf("KindSignatureVerified = %d, want 1", KindSignatureVerified)
	}
	if KindComplianceChecked != 2 {
		t.Errorf("KindComplianceChecked = %d, want 2", KindComplianceChecked)
	}
	if KindError != 3 {
		t.Errorf("KindError = %d, want 3", KindError)
	}
}

func testPayload() *ocmf.Payload {
	return &ocmf.Payload{
		GatewayIdentity: "KEBA_KCP30",
		GatewaySerial:   "17619300",
		Readings:        make([]ocmf.Reading, 2),
	}
}

func TestRecordParsed(t *testing.T) {
	event := RecordParsed("run-1", testPayload())

	if event.Kind != KindRecordParsed {
		t.Errorf("Kind: got %v, want %v", event.Kind, KindRecordParsed)
	}
	if event.RunID != "run-1" {
		t.Errorf("RunID: got %q, want %q", event.RunID, "run-1")
	}
	if event.Serial != "17619300" {
		t.Errorf("Serial: got %q, want %q", event.Serial, "17619300")
	}
	if event.Gateway != "KEBA_KCP30" {
		t.Errorf("Gateway: got %q, want %q", event.Gateway, "KEBA_KCP30")
	}
	if event.Readings != 2 {
		t.Errorf("Readings: got %d, want 2", event.Readings)
	}
	if event.Timestamp.IsZero() {
		t.Error("Timestamp is zero")
	}
}

func TestRecordParsedNilPayload(t *testing.T) {
	event := RecordParsed("run-1", nil)

	if event.Serial != "" || event.Gateway != "" || event.Readings != 0 {
		t.Errorf("nil payload should leave device fields empty, got %+v", event)
	}
}

func TestMeterSerialFallback(t *testing.T) {
	event := RecordParsed("run-1", &ocmf.Payload{MeterSerial: "805289756"})

	if event.Serial != "805289756" {
		t.Errorf("Serial: got %q, want the meter serial", event.Serial)
	}
}

func TestSignatureVerified(t *testing.T) {
	event := SignatureVerified("run-1", testPayload(), true)
	if event.Kind != KindSignatureVerified {
		t.Errorf("Kind: got %v, want %v", event.Kind, KindSignatureVerified)
	}
	if event.Verified == nil || !*event.Verified {
		t.Errorf("Verified: got %v, want true", event.Verified)
	}

	event = SignatureVerified("run-1", testPayload(), false)
	if event.Verified == nil || *event.Verified {
		t.Errorf("Verified: got %v, want false (not nil)", event.Verified)
	}
}

func TestComplianceChecked(t *testing.T) {
	issues := []eichrecht.Issue{
		{Code: eichrecht.CodeMeterStatus, Severity: eichrecht.SeverityError},
		{Code: eichrecht.CodeTimeSync, Severity: eichrecht.SeverityWarning},
	}

	event := ComplianceChecked("run-1", testPayload(), issues)

	if event.Kind != KindComplianceChecked {
		t.Errorf("Kind: got %v, want %v", event.Kind, KindComplianceChecked)
	}
	if len(event.Issues) != 2 {
		t.Fatalf("Issues: got %d entries, want 2", len(event.Issues))
	}
	if event.Issues[0] != string(eichrecht.CodeMeterStatus) {
		t.Errorf("Issues[0]: got %q, want %q", event.Issues[0], eichrecht.CodeMeterStatus)
	}
	if event.Issues[1] != string(eichrecht.CodeTimeSync) {
		t.Errorf("Issues[1]: got %q, want %q", event.Issues[1], eichrecht.CodeTimeSync)
	}
}

func TestComplianceCheckedClean(t *testing.T) {
	event := ComplianceChecked("run-1", testPayload(), nil)

	if len(event.Issues) != 0 {
		t.Errorf("Issues: got %v, want none", event.Issues)
	}
}

func TestFailure(t *testing.T) {
	event := Failure("run-1", ocmf.Errorf(ocmf.KindFormat, "record does not start with OCMF"))

	if event.Kind != KindError {
		t.Errorf("Kind: got %v, want %v", event.Kind, KindError)
	}
	if event.Message == "" {
		t.Error("Message is empty")
	}

	event = Failure("run-1", nil)
	if event.Message != "" {
		t.Errorf("Message: got %q, want empty for nil error", event.Message)
	}
}

func TestNewRunID(t *testing.T) {
	a := NewRunID()
	b := NewRunID()

	if a == "" {
		t.Fatal("NewRunID returned empty string")
	}
	if a == b {
		t.Errorf("NewRunID returned duplicate %q", a)
	}
	if len(a) != 36 {
		t.Errorf("NewRunID length = %d, want 36 (canonical UUID)", len(a))
	}
}
