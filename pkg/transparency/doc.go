// Package transparency reads the XML containers produced by
// transparency software and charge-point backends.
//
// A container is a <values> document whose <value> children wrap OCMF
// records as plain signed data, as hex-encoded data, or both, usually
// together with the public key needed to verify them. Parse returns the
// distinct records in document order; each Entry keeps the transaction
// id and context of its enclosing element and can decode itself into an
// ocmf.Record.
package transparency
