package audit

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ocmf-tools/ocmf-go/pkg/eichrecht"
	"github.com/ocmf-tools/ocmf-go/pkg/ocmf"
)

// Event is one entry in the audit trail.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Kind classifies the event.
	Kind Kind `cbor:"1,keyasint"`

	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"2,keyasint"`

	// RunID groups the events of one tool invocation (UUID).
	RunID string `cbor:"3,keyasint,omitempty"`

	// Serial is the device serial (GS, falling back to MS) of the record.
	Serial string `cbor:"4,keyasint,omitempty"`

	// Gateway is the gateway identity (GI) of the record.
	Gateway string `cbor:"5,keyasint,omitempty"`

	// Readings is the record's reading count.
	Readings int `cbor:"6,keyasint,omitempty"`

	// Verified is the signature verdict, set on KindSignatureVerified.
	Verified *bool `cbor:"7,keyasint,omitempty"`

	// Issues lists compliance issue codes, set on KindComplianceChecked.
	Issues []string `cbor:"8,keyasint,omitempty"`

	// Message carries the error text, set on KindError.
	Message string `cbor:"9,keyasint,omitempty"`
}

// Kind classifies an audit event.
type Kind uint8

const (
	// KindRecordParsed marks a successfully parsed record.
	KindRecordParsed Kind = 0
	// KindSignatureVerified marks a completed signature check.
	KindSignatureVerified Kind = 1
	// KindComplianceChecked marks a completed calibration-law check.
	KindComplianceChecked Kind = 2
	// KindError marks a failed operation.
	KindError Kind = 3
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRecordParsed:
		return "RECORD_PARSED"
	case KindSignatureVerified:
		return "SIGNATURE_VERIFIED"
	case KindComplianceChecked:
		return "COMPLIANCE_CHECKED"
	case KindError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseKind resolves a kind name, case-insensitively.
func ParseKind(name string) (Kind, error) {
	switch strings.ToUpper(name) {
	case "RECORD_PARSED":
		return KindRecordParsed, nil
	case "SIGNATURE_VERIFIED":
		return KindSignatureVerified, nil
	case "COMPLIANCE_CHECKED":
		return KindComplianceChecked, nil
	case "ERROR":
		return KindError, nil
	}
	return 0, ocmf.Errorf(ocmf.KindValidation, "unknown event kind %q", name)
}

// NewRunID returns a fresh identifier grouping the events of one run.
func NewRunID() string {
	return uuid.NewString()
}

// RecordParsed builds the event for a successfully parsed payload.
func RecordParsed(runID string, payload *ocmf.Payload) Event {
	e := newEvent(KindRecordParsed, runID)
	e.describe(payload)
	return e
}

// SignatureVerified builds the event for a completed signature check.
func SignatureVerified(runID string, payload *ocmf.Payload, verified bool) Event {
	e := newEvent(KindSignatureVerified, runID)
	e.describe(payload)
	e.Verified = &verified
	return e
}

// ComplianceChecked builds the event for a completed compliance check.
func ComplianceChecked(runID string, payload *ocmf.Payload, issues []eichrecht.Issue) Event {
	e := newEvent(KindComplianceChecked, runID)
	e.describe(payload)
	for _, issue := range issues {
		e.Issues = append(e.Issues, string(issue.Code))
	}
	return e
}

// Failure builds the event for a failed operation.
func Failure(runID string, err error) Event {
	e := newEvent(KindError, runID)
	if err != nil {
		e.Message = err.Error()
	}
	return e
}

func newEvent(kind Kind, runID string) Event {
	return Event{
		Kind:      kind,
		Timestamp: time.Now().UTC(),
		RunID:     runID,
	}
}

func (e *Event) describe(payload *ocmf.Payload) {
	if payload == nil {
		return
	}
	e.Serial = payload.DeviceSerial()
	e.Gateway = payload.GatewayIdentity
	e.Readings = len(payload.Readings)
}
