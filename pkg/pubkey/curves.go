package pubkey

import (
	"encoding/asn1"
	"strings"

	"github.com/ocmf-tools/ocmf-go/pkg/ocmf"
)

// Curve identifies one of the elliptic curves meters sign with.
type Curve uint8

const (
	CurveUnknown Curve = iota
	CurveSecp192k1
	CurveSecp256k1
	CurveSecp192r1
	// CurveSecp256r1 is NIST P-256, the default for OCMF signatures.
	CurveSecp256r1
	CurveSecp384r1
	CurveSecp521r1
	CurveBrainpoolP256r1
	CurveBrainpoolP384r1
)

// String returns the canonical curve name.
func (c Curve) String() string {
	switch c {
	case CurveSecp192k1:
		return "secp192k1"
	case CurveSecp256k1:
		return "secp256k1"
	case CurveSecp192r1:
		return "secp192r1"
	case CurveSecp256r1:
		return "secp256r1"
	case CurveSecp384r1:
		return "secp384r1"
	case CurveSecp521r1:
		return "secp521r1"
	case CurveBrainpoolP256r1:
		return "brainpoolP256r1"
	case CurveBrainpoolP384r1:
		return "brainpoolP384r1"
	default:
		return "UNKNOWN"
	}
}

// KeySize returns the curve order size in bits.
func (c Curve) KeySize() int {
	switch c {
	case CurveSecp192k1, CurveSecp192r1:
		return 192
	case CurveSecp256k1, CurveSecp256r1, CurveBrainpoolP256r1:
		return 256
	case CurveSecp384r1, CurveBrainpoolP384r1:
		return 384
	case CurveSecp521r1:
		return 521
	default:
		return 0
	}
}

// BlockLength returns the byte length of one signature component (r or s)
// in the fixed-width form. Established meters truncate 521 bits to 65 bytes.
func (c Curve) BlockLength() int {
	return c.KeySize() / 8
}

// coordinateLength is the byte length of one affine point coordinate in an
// uncompressed SEC1 point. Unlike BlockLength it rounds up.
func (c Curve) coordinateLength() int {
	return (c.KeySize() + 7) / 8
}

// ParseCurve maps a curve name to its identity. Both brainpool spellings
// seen in the wild resolve to the same curve.
func ParseCurve(name string) (Curve, error) {
	switch name {
	case "secp192k1":
		return CurveSecp192k1, nil
	case "secp256k1":
		return CurveSecp256k1, nil
	case "secp192r1":
		return CurveSecp192r1, nil
	case "secp256r1":
		return CurveSecp256r1, nil
	case "secp384r1":
		return CurveSecp384r1, nil
	case "secp521r1":
		return CurveSecp521r1, nil
	case "brainpool256r1", "brainpoolP256r1":
		return CurveBrainpoolP256r1, nil
	case "brainpool384r1", "brainpoolP384r1":
		return CurveBrainpoolP384r1, nil
	default:
		return CurveUnknown, ocmf.Errorf(ocmf.KindCrypto, "unknown curve %q", name)
	}
}

// oidECPublicKey is the id-ecPublicKey algorithm identifier every OCMF key
// must carry.
var oidECPublicKey = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}

// oidSecp256r1 is used to rebuild DER for the raw-coordinate fallback.
var oidSecp256r1 = asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}

var curveOIDs = map[string]Curve{
	"1.3.132.0.31":          CurveSecp192k1,
	"1.3.132.0.10":          CurveSecp256k1,
	"1.2.840.10045.3.1.1":   CurveSecp192r1,
	"1.2.840.10045.3.1.7":   CurveSecp256r1,
	"1.3.132.0.34":          CurveSecp384r1,
	"1.3.132.0.35":          CurveSecp521r1,
	"1.3.36.3.3.2.8.1.1.7":  CurveBrainpoolP256r1,
	"1.3.36.3.3.2.8.1.1.11": CurveBrainpoolP384r1,
}

func curveFromOID(oid asn1.ObjectIdentifier) (Curve, bool) {
	c, ok := curveOIDs[oid.String()]
	return c, ok
}

// Hash selects the digest half of a signature algorithm.
type Hash uint8

const (
	HashSHA256 Hash = iota
	HashSHA512
)

func (h Hash) String() string {
	switch h {
	case HashSHA256:
		return "SHA256"
	case HashSHA512:
		return "SHA512"
	default:
		return "UNKNOWN"
	}
}

// Algorithm is a parsed signature algorithm identifier (SA).
type Algorithm struct {
	Curve Curve
	Hash  Hash
}

// String returns the canonical identifier; alternate curve spellings are
// normalized.
func (a Algorithm) String() string {
	return "ECDSA-" + a.Curve.String() + "-" + a.Hash.String()
}

// ParseAlgorithm parses an identifier of the form ECDSA-<curve>-<hash>.
// Unsupported identifiers are rejected; the accepted set is the nine curves
// combined with SHA-256 and SHA-512.
func ParseAlgorithm(sa string) (Algorithm, error) {
	parts := strings.Split(sa, "-")
	if len(parts) != 3 || parts[0] != "ECDSA" {
		return Algorithm{}, ocmf.Errorf(ocmf.KindCrypto, "unsupported signature algorithm %q", sa)
	}
	curve, err := ParseCurve(parts[1])
	if err != nil {
		return Algorithm{}, ocmf.Errorf(ocmf.KindCrypto, "unsupported signature algorithm %q", sa)
	}
	var hash Hash
	switch parts[2] {
	case "SHA256":
		hash = HashSHA256
	case "SHA512":
		hash = HashSHA512
	default:
		return Algorithm{}, ocmf.Errorf(ocmf.KindCrypto, "unsupported signature algorithm %q", sa)
	}
	return Algorithm{Curve: curve, Hash: hash}, nil
}
