// Package verify checks the ECDSA signatures carried by metering records.
//
// A signature covers the exact payload segment between the first and second
// pipe of the transmitted record, so verification only works on records
// parsed from their original wire form. The algorithm string in the
// signature section selects one of nine curves crossed with SHA-256 or
// SHA-512; the public key comes either from the caller (the usual
// out-of-band channel) or from the record's own PK field.
//
// Verification returns a verdict and an error separately: false with a nil
// error is a cryptographically rejected signature, while a non-nil error
// means no verdict could be reached at all.
package verify
