package verify

import (
	"math/big"

	"github.com/ocmf-tools/ocmf-go/pkg/pubkey"
)

// Provider is the cryptographic backend a Verifier dispatches to. The
// default provider covers every curve the format names; alternative
// backends (hardware modules, restricted builds) may cover fewer.
type Provider interface {
	// Available reports whether the provider can verify signatures on curve.
	Available(curve pubkey.Curve) bool

	// VerifyDigest checks the ECDSA signature (r, s) over digest against
	// the public point (x, y) on curve. The boolean is the verdict; the
	// error reports that verification could not be attempted, never a
	// plain mismatch.
	VerifyDigest(curve pubkey.Curve, x, y *big.Int, digest []byte, r, s *big.Int) (bool, error)
}
