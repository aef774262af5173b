package ocmf

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
)

// Defaults applied when the signature segment omits the corresponding field.
const (
	DefaultSignatureAlgorithm = "ECDSA-secp256r1-SHA256"
	DefaultSignatureMimeType  = "application/x-der"
)

// Signature is the validated second JSON segment. Omitted fields carry their
// documented defaults after parsing.
type Signature struct {
	Algorithm string            `json:"SA,omitempty"`
	Encoding  SignatureEncoding `json:"SE,omitempty"`
	MimeType  string            `json:"SM,omitempty"`
	Data      string            `json:"SD"`
	PublicKey string            `json:"PK,omitempty"`
	KeyType   string            `json:"KT,omitempty"`
}

type signatureWire struct {
	SA *string `json:"SA"`
	SE *string `json:"SE"`
	SM *string `json:"SM"`
	SD *string `json:"SD"`
	PK *string `json:"PK"`
	KT *string `json:"KT"`
}

// ParseSignature validates a raw signature segment and fills in defaults.
func ParseSignature(data []byte) (*Signature, error) {
	var w signatureWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, Wrap(KindSignature, err, "invalid signature JSON")
	}

	sig := &Signature{
		Algorithm: DefaultSignatureAlgorithm,
		Encoding:  SignatureEncodingHex,
		MimeType:  DefaultSignatureMimeType,
		PublicKey: stringValue(w.PK),
		KeyType:   stringValue(w.KT),
	}
	if w.SA != nil && *w.SA != "" {
		sig.Algorithm = *w.SA
	}
	if w.SE != nil && *w.SE != "" {
		encoding := SignatureEncoding(*w.SE)
		if !encoding.IsValid() {
			return nil, FieldErrorf("SE", *w.SE, "unknown signature encoding")
		}
		sig.Encoding = encoding
	}
	if w.SM != nil && *w.SM != "" {
		sig.MimeType = *w.SM
	}
	if w.SD == nil || *w.SD == "" {
		return nil, FieldErrorf("SD", "", "required field is missing")
	}
	sig.Data = *w.SD

	return sig, nil
}

// DecodedData returns the signature bytes after reversing the transfer
// encoding.
func (s *Signature) DecodedData() ([]byte, error) {
	switch s.Encoding {
	case SignatureEncodingBase64:
		raw, err := base64.StdEncoding.Strict().DecodeString(s.Data)
		if err != nil {
			return nil, Wrap(KindEncoding, err, "invalid base64 signature data")
		}
		return raw, nil
	default:
		raw, err := hex.DecodeString(s.Data)
		if err != nil {
			return nil, Wrap(KindEncoding, err, "invalid hex signature data")
		}
		return raw, nil
	}
}
