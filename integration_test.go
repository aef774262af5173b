package ocmf_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ocmf-tools/ocmf-go/pkg/audit"
	"github.com/ocmf-tools/ocmf-go/pkg/eichrecht"
	"github.com/ocmf-tools/ocmf-go/pkg/keyring"
	"github.com/ocmf-tools/ocmf-go/pkg/ocmf"
	"github.com/ocmf-tools/ocmf-go/pkg/pubkey"
	"github.com/ocmf-tools/ocmf-go/pkg/transparency"
	"github.com/ocmf-tools/ocmf-go/pkg/verify"
)

// Signed reference record from a KEBA KCP30 wallbox and the public key its
// operator publishes out-of-band.
const kebaRecord = `OCMF|{"FV":"1.0","GI":"KEBA_KCP30","GS":"17619300","GV":"2.8.5","PG":"T32","IS":false,"IL":"NONE","IF":["RFID_NONE","OCPP_NONE","ISO15118_NONE","PLMN_NONE"],"IT":"NONE","ID":"","RD":[{"TM":"2019-08-13T10:03:15,000+0000 I","TX":"B","EF":"","ST":"G","RV":0.2596,"RI":"1-b:1.8.0","RU":"kWh"},{"TM":"2019-08-13T10:03:36,000+0000 R","TX":"E","EF":"","ST":"G","RV":0.2597,"RI":"1-b:1.8.0","RU":"kWh"}]}|{"SD":"304502200E2F107C987A300AC1695CA89EA149A8CDFA16188AF0A33EE64B67964AA943F9022100889A72B6D65364BEA8562E7F6A0253157ACFF84FE4929A93B5964D23C4265699"}`

const kebaKeyHex = "3059301306072A8648CE3D020106082A8648CE3D030107034200043AEEB45C392357820A58FDFB0857BD77ADA31585C61C430531DFA53B440AFBFDD95AC887C658EA55260F808F55CA948DF235C2108A0D6DC7D4AB1A5E1A7955BE"

// TestE2E_TransparencyVerification runs the full consumer pipeline over a
// real wallbox export: container parsing, signature verification, the
// calibration-law check, and the audit trail round trip.
func TestE2E_TransparencyVerification(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dir := t.TempDir()

	// Setup: a transparency container as the operator portal exports it.
	container := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<values>
  <value transactionId="1">
    <signedData format="OCMF" encoding="plain">%s</signedData>
    <publicKey encoding="hex">%s</publicKey>
  </value>
</values>`, kebaRecord, kebaKeyHex)

	containerPath := filepath.Join(dir, "export.xml")
	if err := os.WriteFile(containerPath, []byte(container), 0o600); err != nil {
		t.Fatalf("Failed to write container: %v", err)
	}

	entries, err := transparency.ParseFile(containerPath)
	if err != nil {
		t.Fatalf("Failed to parse container: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Entry count mismatch: expected 1, got %d", len(entries))
	}
	if entries[0].TransactionID != "1" {
		t.Errorf("Transaction ID mismatch: expected 1, got %s", entries[0].TransactionID)
	}

	rec, err := entries[0].Decode()
	if err != nil {
		t.Fatalf("Failed to decode record: %v", err)
	}
	if rec.Payload.GatewaySerial != "17619300" {
		t.Errorf("Serial mismatch: expected 17619300, got %s", rec.Payload.GatewaySerial)
	}
	if len(rec.Payload.Readings) != 2 {
		t.Fatalf("Reading count mismatch: expected 2, got %d", len(rec.Payload.Readings))
	}

	key, err := entries[0].Key()
	if err != nil {
		t.Fatalf("Failed to parse container key: %v", err)
	}
	if key.Curve() != pubkey.CurveSecp256r1 {
		t.Errorf("Curve mismatch: expected secp256r1, got %s", key.Curve())
	}

	valid, err := verify.Verify(rec, key)
	if err != nil {
		t.Fatalf("Verification failed to run: %v", err)
	}
	if !valid {
		t.Fatal("Signature did not verify against the container key")
	}

	// The wallbox reports informative and relative clock states, which the
	// calibration check flags as warnings without blocking compliance.
	issues := eichrecht.CheckPayload(rec.Payload)
	if len(issues) != 2 {
		t.Fatalf("Issue count mismatch: expected 2, got %d (%v)", len(issues), issues)
	}
	for _, issue := range issues {
		if issue.Code != eichrecht.CodeTimeSync {
			t.Errorf("Unexpected issue code: expected TIME_SYNC, got %s", issue.Code)
		}
		if issue.Severity != eichrecht.SeverityWarning {
			t.Errorf("Unexpected severity for %s: %s", issue.Code, issue.Severity)
		}
	}
	if !eichrecht.Compliant(issues) {
		t.Error("Warnings alone must leave the record compliant")
	}

	// Log the whole run and read it back.
	logPath := filepath.Join(dir, "audit.cbor")
	logger, err := audit.NewFileLogger(logPath)
	if err != nil {
		t.Fatalf("Failed to open audit log: %v", err)
	}
	runID := audit.NewRunID()
	logger.Log(audit.RecordParsed(runID, rec.Payload))
	logger.Log(audit.SignatureVerified(runID, rec.Payload, valid))
	logger.Log(audit.ComplianceChecked(runID, rec.Payload, issues))
	if err := logger.Close(); err != nil {
		t.Fatalf("Failed to close audit log: %v", err)
	}

	reader, err := audit.NewReader(logPath)
	if err != nil {
		t.Fatalf("Failed to open audit log for reading: %v", err)
	}
	defer reader.Close()

	wantKinds := []audit.Kind{audit.KindRecordParsed, audit.KindSignatureVerified, audit.KindComplianceChecked}
	for i, want := range wantKinds {
		event, err := reader.Next()
		if err != nil {
			t.Fatalf("Failed to read event %d: %v", i, err)
		}
		if event.Kind != want {
			t.Errorf("Event %d kind mismatch: expected %s, got %s", i, want, event.Kind)
		}
		if event.RunID != runID {
			t.Errorf("Event %d run ID mismatch: expected %s, got %s", i, runID, event.RunID)
		}
		if event.Serial != "17619300" {
			t.Errorf("Event %d serial mismatch: expected 17619300, got %s", i, event.Serial)
		}
		switch want {
		case audit.KindSignatureVerified:
			if event.Verified == nil || !*event.Verified {
				t.Error("Verification event must carry a true verdict")
			}
		case audit.KindComplianceChecked:
			if len(event.Issues) != 2 || event.Issues[0] != "TIME_SYNC" {
				t.Errorf("Compliance event issues mismatch: %v", event.Issues)
			}
		}
	}
	if _, err := reader.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Expected EOF after 3 events, got %v", err)
	}

	t.Logf("Transparency flow successful - record verified with container key, compliant with %d warning(s)", len(issues))
}

// TestE2E_SignedTransactionPair builds a begin/end record pair, signs it
// with a fresh meter key, and runs it through verification, keyring
// resolution, and the transaction-level compliance check.
func TestE2E_SignedTransactionPair(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("Failed to generate meter key: %v", err)
	}
	spki, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		t.Fatalf("Failed to encode public key: %v", err)
	}
	keyHex := hex.EncodeToString(spki)

	beginTime := time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)
	begin := buildChargePayload("T7", ocmf.ReadingReasonBegin, "0", beginTime)
	end := buildChargePayload("T8", ocmf.ReadingReasonEnd, "1.5", beginTime.Add(45*time.Minute))

	beginRec, err := signChargeRecord(priv, keyHex, begin)
	if err != nil {
		t.Fatalf("Failed to sign begin record: %v", err)
	}
	endRec, err := signChargeRecord(priv, keyHex, end)
	if err != nil {
		t.Fatalf("Failed to sign end record: %v", err)
	}

	// No caller key: verification falls back to the embedded PK.
	for name, rec := range map[string]*ocmf.Record{"begin": beginRec, "end": endRec} {
		valid, err := verify.Verify(rec, nil)
		if err != nil {
			t.Fatalf("Verification of %s record failed to run: %v", name, err)
		}
		if !valid {
			t.Errorf("%s record did not verify with its embedded key", name)
		}
	}

	// The same key resolved through a trust list must agree.
	ring, err := keyring.Parse([]byte(fmt.Sprintf("%q:\n  key: %s\n", begin.GatewaySerial, keyHex)))
	if err != nil {
		t.Fatalf("Failed to parse keyring: %v", err)
	}
	ringKey, err := ring.Resolve(beginRec.Payload)
	if err != nil {
		t.Fatalf("Failed to resolve key: %v", err)
	}
	valid, err := verify.Verify(beginRec, ringKey)
	if err != nil {
		t.Fatalf("Verification with keyring key failed to run: %v", err)
	}
	if !valid {
		t.Error("Begin record did not verify with the keyring key")
	}

	issues := eichrecht.CheckTransaction(beginRec.Payload, endRec.Payload)
	if len(issues) != 0 {
		t.Errorf("Expected a clean transaction, got %v", issues)
	}

	// A changed end value must flip the cryptographic verdict, not error.
	tampered, err := ocmf.ParseRecord(strings.Replace(endRec.String(), `"RV":1.5`, `"RV":2.5`, 1))
	if err != nil {
		t.Fatalf("Failed to parse tampered record: %v", err)
	}
	valid, err = verify.Verify(tampered, nil)
	if err != nil {
		t.Fatalf("Verification of tampered record failed to run: %v", err)
	}
	if valid {
		t.Error("Tampered record must not verify")
	}

	t.Logf("Signed pair successful - both halves verified, transaction compliant, tampering detected")
}

// Helper functions

// buildChargePayload creates one half of a charging transaction with a
// single synchronized reading.
func buildChargePayload(page string, reason ocmf.ReadingReason, value string, at time.Time) *ocmf.Payload {
	register, _ := ocmf.ParseOBIS("1-b:1.8.0")
	rv := ocmf.MustDecimal(value)
	return &ocmf.Payload{
		FormatVersion:        "1.0",
		GatewayIdentity:      "E2E-GW",
		GatewaySerial:        "E2E-0451",
		Pagination:           page,
		IdentificationStatus: true,
		IdentificationLevel:  ocmf.IdentificationLevelVerified,
		IdentificationType:   ocmf.IdentificationTypeISO14443,
		Identification:       "AB12CD34",
		Readings: []ocmf.Reading{{
			Time:        ocmf.Timestamp{Time: at, Status: ocmf.TimeStatusSynchronized},
			Transaction: &reason,
			Value:       &rv,
			Register:    &register,
			Unit:        ocmf.UnitKilowattHour,
			Status:      ocmf.MeterStatusOK,
		}},
	}
}

// signChargeRecord signs the payload's canonical encoding and assembles a
// record that embeds the verification key, the way a gateway would.
func signChargeRecord(priv *ecdsa.PrivateKey, keyHex string, payload *ocmf.Payload) (*ocmf.Record, error) {
	encoded, err := ocmf.Encode(payload, &ocmf.Signature{Data: "00"})
	if err != nil {
		return nil, err
	}
	segment := strings.Split(encoded, "|")[1]

	digest := sha256.Sum256([]byte(segment))
	sig, err := ecdsa.SignASN1(rand.Reader, priv, digest[:])
	if err != nil {
		return nil, err
	}

	text := ocmf.FormatTag + "|" + segment + `|{"SD":"` + hex.EncodeToString(sig) + `","PK":"` + keyHex + `"}`
	return ocmf.ParseRecord(text)
}
