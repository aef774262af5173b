package verify

import (
	"crypto/sha256"
	"crypto/sha512"

	"github.com/ocmf-tools/ocmf-go/pkg/ocmf"
	"github.com/ocmf-tools/ocmf-go/pkg/pubkey"
)

// Verifier checks record signatures against meter public keys.
type Verifier struct {
	provider Provider
}

// NewVerifier returns a Verifier backed by provider. A nil provider selects
// the built-in ECDSA implementation.
func NewVerifier(provider Provider) *Verifier {
	if provider == nil {
		provider = DefaultProvider{}
	}
	return &Verifier{provider: provider}
}

// Available reports whether signatures on curve can be verified.
func (v *Verifier) Available(curve pubkey.Curve) bool {
	return v.provider.Available(curve)
}

// Verify checks rec's signature over its exact payload segment. The key
// resolution order is fixed: a caller-supplied key wins, otherwise the key
// embedded in the signature section (PK) is used, and with neither the
// verification fails with a not-found error.
//
// The boolean is the cryptographic verdict. An error means verification
// could not be attempted (undecodable data, unsupported algorithm, missing
// or mismatched key); callers must not read an error as "signature bad".
func (v *Verifier) Verify(rec *ocmf.Record, key *pubkey.PublicKey) (bool, error) {
	if rec == nil || rec.Signature == nil {
		return false, ocmf.Errorf(ocmf.KindVerification, "record carries no signature section")
	}

	sigBytes, err := rec.Signature.DecodedData()
	if err != nil {
		return false, err
	}

	sa := rec.Signature.Algorithm
	if sa == "" {
		sa = ocmf.DefaultSignatureAlgorithm
	}
	alg, err := pubkey.ParseAlgorithm(sa)
	if err != nil {
		return false, err
	}

	if key == nil {
		if rec.Signature.PublicKey == "" {
			return false, ocmf.Errorf(ocmf.KindNotFound,
				"no public key: none supplied and the record embeds none")
		}
		key, err = pubkey.Parse(rec.Signature.PublicKey)
		if err != nil {
			return false, err
		}
	}
	if key.Curve() != alg.Curve {
		return false, ocmf.Errorf(ocmf.KindVerification,
			"public key curve mismatch: signature algorithm specifies %s but public key uses %s",
			alg.Curve, key.Curve())
	}

	r, s, err := splitSignature(sigBytes, alg.Curve.BlockLength())
	if err != nil {
		return false, err
	}

	if !v.provider.Available(alg.Curve) {
		return false, ocmf.Errorf(ocmf.KindCrypto, "no verification backend for curve %s", alg.Curve)
	}

	payload := []byte(rec.PayloadJSON())
	var digest []byte
	switch alg.Hash {
	case pubkey.HashSHA512:
		sum := sha512.Sum512(payload)
		digest = sum[:]
	default:
		sum := sha256.Sum256(payload)
		digest = sum[:]
	}

	x, y := key.Coordinates()
	return v.provider.VerifyDigest(alg.Curve, x, y, digest, r, s)
}

var defaultVerifier = NewVerifier(nil)

// Verify checks rec with the built-in ECDSA provider.
func Verify(rec *ocmf.Record, key *pubkey.PublicKey) (bool, error) {
	return defaultVerifier.Verify(rec, key)
}

// Available reports whether the built-in provider supports curve.
func Available(curve pubkey.Curve) bool {
	return defaultVerifier.Available(curve)
}
