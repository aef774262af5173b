package verify

import (
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"

	"github.com/ocmf-tools/ocmf-go/pkg/ocmf"
)

// splitSignature recovers the (r, s) pair from decoded signature bytes.
// Exactly 2×block bytes is the fixed-width r||s form; anything else must be
// a DER ECDSA-Sig-Value. Both integers must fit the curve's block length.
func splitSignature(raw []byte, block int) (r, s *big.Int, err error) {
	if len(raw) == 2*block {
		r = new(big.Int).SetBytes(raw[:block])
		s = new(big.Int).SetBytes(raw[block:])
		return r, s, nil
	}
	return splitDERSignature(raw, block)
}

func splitDERSignature(raw []byte, block int) (*big.Int, *big.Int, error) {
	input := cryptobyte.String(raw)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, cryptobyte_asn1.SEQUENCE) || !input.Empty() {
		return nil, nil, ocmf.Errorf(ocmf.KindVerification,
			"signature is neither fixed-width r||s (%d bytes) nor a DER sequence", 2*block)
	}

	r, s := new(big.Int), new(big.Int)
	if !seq.ReadASN1Integer(r) || !seq.ReadASN1Integer(s) || !seq.Empty() {
		return nil, nil, ocmf.Errorf(ocmf.KindVerification, "malformed DER signature integers")
	}
	if r.Sign() <= 0 || s.Sign() <= 0 {
		return nil, nil, ocmf.Errorf(ocmf.KindVerification, "signature integers must be positive")
	}
	if (r.BitLen()+7)/8 > block || (s.BitLen()+7)/8 > block {
		return nil, nil, ocmf.Errorf(ocmf.KindVerification,
			"signature integers exceed the %d-byte curve block length", block)
	}
	return r, s, nil
}
