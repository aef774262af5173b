package pubkey

import (
	"crypto/elliptic"
	"encoding/asn1"
	"encoding/base64"
	"encoding/hex"
	"math/big"
	"strings"

	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"

	"github.com/ocmf-tools/ocmf-go/pkg/ocmf"
)

// PublicKey is a parsed EC public key with its curve identity and point
// coordinates. Construct one with Parse.
type PublicKey struct {
	der   []byte
	curve Curve
	x, y  *big.Int
}

// Parse decodes a meter public key. Input is hex or base64 (auto-detected)
// wrapping a DER SubjectPublicKeyInfo; a bare 64-byte value is accepted as
// raw P-256 X||Y coordinates, which some gateways emit instead of DER.
func Parse(input string) (*PublicKey, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, ocmf.Errorf(ocmf.KindPublicKey, "empty public key")
	}

	raw, err := decodeKeyString(trimmed)
	if err != nil {
		return nil, err
	}

	key, derErr := parseDER(raw)
	if derErr == nil {
		return key, nil
	}
	if len(raw) == 64 {
		return parseRawP256(raw)
	}
	return nil, derErr
}

// decodeKeyString reverses the transfer encoding: all-hex input of even
// length is hex, everything else must be strict base64.
func decodeKeyString(s string) ([]byte, error) {
	if isHex(s) {
		raw, err := hex.DecodeString(s)
		if err != nil {
			return nil, ocmf.Wrap(ocmf.KindEncoding, err, "invalid hex public key")
		}
		return raw, nil
	}
	raw, err := base64.StdEncoding.Strict().DecodeString(s)
	if err != nil {
		return nil, ocmf.Errorf(ocmf.KindEncoding, "public key is neither hex nor base64")
	}
	return raw, nil
}

func isHex(s string) bool {
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

// parseDER walks a SubjectPublicKeyInfo: the id-ecPublicKey algorithm, a
// named-curve parameter OID, and an uncompressed point of the curve's
// coordinate width. No on-curve check happens here; verification rejects
// invalid points.
func parseDER(der []byte) (*PublicKey, error) {
	input := cryptobyte.String(der)
	var spki cryptobyte.String
	if !input.ReadASN1(&spki, cryptobyte_asn1.SEQUENCE) || !input.Empty() {
		return nil, ocmf.Errorf(ocmf.KindPublicKey, "public key is not a DER SubjectPublicKeyInfo")
	}

	var algorithm cryptobyte.String
	if !spki.ReadASN1(&algorithm, cryptobyte_asn1.SEQUENCE) {
		return nil, ocmf.Errorf(ocmf.KindPublicKey, "public key algorithm sequence is malformed")
	}
	var algOID asn1.ObjectIdentifier
	if !algorithm.ReadASN1ObjectIdentifier(&algOID) {
		return nil, ocmf.Errorf(ocmf.KindPublicKey, "public key algorithm identifier is malformed")
	}
	if !algOID.Equal(oidECPublicKey) {
		return nil, ocmf.Errorf(ocmf.KindPublicKey, "unsupported key algorithm OID %s", algOID)
	}
	var curveOID asn1.ObjectIdentifier
	if !algorithm.ReadASN1ObjectIdentifier(&curveOID) {
		return nil, ocmf.Errorf(ocmf.KindPublicKey, "public key has no named curve parameter")
	}
	curve, ok := curveFromOID(curveOID)
	if !ok {
		return nil, ocmf.Errorf(ocmf.KindPublicKey, "unknown curve OID %s", curveOID)
	}

	var point asn1.BitString
	if !spki.ReadASN1BitString(&point) {
		return nil, ocmf.Errorf(ocmf.KindPublicKey, "public key point is malformed")
	}
	pt := point.RightAlign()
	n := curve.coordinateLength()
	if len(pt) != 1+2*n || pt[0] != 4 {
		return nil, ocmf.Errorf(ocmf.KindPublicKey, "public key is not an uncompressed %s point", curve)
	}

	return &PublicKey{
		der:   der,
		curve: curve,
		x:     new(big.Int).SetBytes(pt[1 : 1+n]),
		y:     new(big.Int).SetBytes(pt[1+n:]),
	}, nil
}

// parseRawP256 interprets 64 bytes as P-256 X||Y, validates the point and
// re-encodes it as DER so the key behaves like any other.
func parseRawP256(raw []byte) (*PublicKey, error) {
	x := new(big.Int).SetBytes(raw[:32])
	y := new(big.Int).SetBytes(raw[32:])
	if !elliptic.P256().IsOnCurve(x, y) {
		return nil, ocmf.Errorf(ocmf.KindPublicKey, "64-byte key is not a point on secp256r1")
	}

	point := make([]byte, 0, 65)
	point = append(point, 4)
	point = append(point, raw...)

	var b cryptobyte.Builder
	b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1ObjectIdentifier(oidECPublicKey)
			b.AddASN1ObjectIdentifier(oidSecp256r1)
		})
		b.AddASN1BitString(point)
	})
	der, err := b.Bytes()
	if err != nil {
		return nil, ocmf.Wrap(ocmf.KindPublicKey, err, "cannot encode public key")
	}

	return &PublicKey{der: der, curve: CurveSecp256r1, x: x, y: y}, nil
}

// Key returns the DER bytes as lowercase hex, the normalized exchange form.
func (k *PublicKey) Key() string {
	return hex.EncodeToString(k.der)
}

// DER returns a copy of the DER-encoded SubjectPublicKeyInfo.
func (k *PublicKey) DER() []byte {
	return append([]byte(nil), k.der...)
}

// Base64 returns the DER bytes in standard base64.
func (k *PublicKey) Base64() string {
	return base64.StdEncoding.EncodeToString(k.der)
}

// Curve returns the curve identity.
func (k *PublicKey) Curve() Curve {
	return k.curve
}

// KeySize returns the key size in bits.
func (k *PublicKey) KeySize() int {
	return k.curve.KeySize()
}

// BlockLength returns the byte length of one fixed-width signature
// component for this key's curve.
func (k *PublicKey) BlockLength() int {
	return k.curve.BlockLength()
}

// KeyType returns the derived identifier, e.g. ECDSA-secp256r1.
func (k *PublicKey) KeyType() string {
	return "ECDSA-" + k.curve.String()
}

// Coordinates returns copies of the affine point coordinates.
func (k *PublicKey) Coordinates() (x, y *big.Int) {
	return new(big.Int).Set(k.x), new(big.Int).Set(k.y)
}

// MatchesAlgorithm reports whether this key's curve matches the curve a
// signature algorithm identifier declares. An empty identifier matches
// nothing; an unparseable one is an error rather than a mismatch.
func (k *PublicKey) MatchesAlgorithm(sa string) (bool, error) {
	if sa == "" {
		return false, nil
	}
	alg, err := ParseAlgorithm(sa)
	if err != nil {
		return false, err
	}
	return alg.Curve == k.curve, nil
}

func (k *PublicKey) String() string {
	return k.Key()
}
