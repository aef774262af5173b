// Package pubkey parses the elliptic-curve public keys charge points
// publish alongside their signed meter records.
//
// Keys travel as hex- or base64-encoded DER SubjectPublicKeyInfo structures;
// the encoding is auto-detected. Parsing extracts the curve identity from
// the named-curve OID and exposes the metadata verification needs:
//
//	key, err := pubkey.Parse("3059301306072a8648ce3d...")
//	if err != nil {
//		// ...
//	}
//	fmt.Println(key.Curve(), key.KeySize(), key.BlockLength())
//
// Nine curves are recognized: the SEC parameter set secp192k1, secp256k1,
// secp192r1, secp256r1, secp384r1 and secp521r1, plus brainpoolP256r1 and
// brainpoolP384r1. The brainpool-256 curve appears under two spellings in
// algorithm identifiers; both resolve to the same curve.
//
// Some gateways publish the bare 64-byte X||Y coordinates instead of DER.
// Parse detects this, validates the point against P-256 and re-encodes it,
// so downstream code only ever sees proper DER keys.
//
// ParseAlgorithm parses signature algorithm identifiers (the OCMF SA field)
// into a curve and hash pair; PublicKey.MatchesAlgorithm compares a key
// against a declared identifier by canonical curve identity.
package pubkey
