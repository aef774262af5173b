package ocmf

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// FormatTag is the leading segment of every record.
const FormatTag = "OCMF"

// Record is a fully parsed OCMF record. The original text and the raw JSON
// segments are retained: signature verification hashes the payload segment
// exactly as transmitted, so the raw bytes stay authoritative and a Record
// is never re-serialized implicitly.
type Record struct {
	text         string
	payloadRaw   string
	signatureRaw string

	Payload   *Payload
	Signature *Signature
}

// ParseRecord decodes and validates a record. Surrounding whitespace is
// trimmed; hex-encoded input is detected and decoded transparently.
func ParseRecord(input string) (*Record, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return nil, Errorf(KindFormat, "empty record")
	}
	if isHexString(text) {
		raw, err := hex.DecodeString(text)
		if err != nil {
			return nil, Wrap(KindEncoding, err, "invalid hex record")
		}
		if !utf8.Valid(raw) {
			return nil, Errorf(KindEncoding, "hex record does not decode to valid UTF-8")
		}
		text = strings.TrimSpace(string(raw))
	}

	parts := strings.Split(text, "|")
	if len(parts) != 3 {
		return nil, Errorf(KindFormat, "expected 3 segments separated by |, got %d", len(parts))
	}
	if parts[0] != FormatTag {
		return nil, Errorf(KindFormat, "record does not start with %s", FormatTag)
	}

	payload, err := ParsePayload([]byte(parts[1]))
	if err != nil {
		return nil, err
	}
	signature, err := ParseSignature([]byte(parts[2]))
	if err != nil {
		return nil, err
	}

	return &Record{
		text:         text,
		payloadRaw:   parts[1],
		signatureRaw: parts[2],
		Payload:      payload,
		Signature:    signature,
	}, nil
}

// String returns the record exactly as transmitted (after hex decoding).
func (r *Record) String() string {
	return r.text
}

// Hex returns the lowercase hex encoding of the record text.
func (r *Record) Hex() string {
	return hex.EncodeToString([]byte(r.text))
}

// PayloadJSON returns the untouched payload segment. This is the message
// that was signed.
func (r *Record) PayloadJSON() string {
	return r.payloadRaw
}

// SignatureJSON returns the untouched signature segment.
func (r *Record) SignatureJSON() string {
	return r.signatureRaw
}

// Encode builds a record from typed structs. The result re-parses to the
// same structures; byte identity with foreign producers is not promised,
// Record.String is the faithful form.
func Encode(payload *Payload, signature *Signature) (string, error) {
	p, err := marshalNoEscape(payload)
	if err != nil {
		return "", Wrap(KindPayload, err, "cannot encode payload")
	}
	s, err := marshalNoEscape(signature)
	if err != nil {
		return "", Wrap(KindSignature, err, "cannot encode signature")
	}
	return FormatTag + "|" + p + "|" + s, nil
}

// marshalNoEscape marshals without HTML escaping so that raw JSON segments
// keep characters like < and & verbatim.
func marshalNoEscape(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// isHexString reports whether s consists solely of hex digits with even
// length. Record text always contains the | separator, so hex input cannot
// be mistaken for plain text.
func isHexString(s string) bool {
	if len(s) == 0 || len(s)%2 != 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case '0' <= c && c <= '9', 'a' <= c && c <= 'f', 'A' <= c && c <= 'F':
		default:
			return false
		}
	}
	return true
}
