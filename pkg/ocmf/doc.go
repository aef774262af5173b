// Package ocmf parses and validates Open Charge Metering Format records.
//
// OCMF is the format EV charging stations use to sign meter readings so that
// a customer can later prove what was measured. A record is a pipe-separated
// triple of format tag, payload JSON and signature JSON:
//
//	OCMF|{"FV":"1.0","GS":"17619300",...,"RD":[...]}|{"SD":"3045..."}
//
// # Parsing
//
// ParseRecord accepts both the plain form and its hex encoding:
//
//	rec, err := ocmf.ParseRecord(input)
//	if err != nil {
//		// *ocmf.Error with a kind and the offending wire field
//	}
//	for _, rd := range rec.Payload.Readings {
//		fmt.Println(rd.Time, rd.Value, rd.Unit)
//	}
//
// The original text survives parsing: Record.String returns it byte for
// byte, and Record.PayloadJSON returns the exact payload segment. That
// segment is the signed message, so verification always hashes it as
// transmitted rather than a re-serialization.
//
// # Validation
//
// Parsing validates the schema:
//   - required fields (PG, IS, RD, per-reading TM/RU/ST, signature SD)
//   - enum values (identification level/flags/type, transaction reasons,
//     meter status, time status, units)
//   - formats (timestamps, OBIS register codes, identification data per IT)
//   - cross-field rules (GS or MS present, transaction sequencing)
//
// Omitted reading fields inherit from the previous reading, which keeps
// compact multi-reading records valid. Violations are reported as *Error
// values carrying the wire field name.
//
// # Encoding
//
// Encode rebuilds a record from the typed structs. The result re-parses to
// the same data but is not guaranteed byte-identical to foreign input; use
// Record.String when the original bytes matter.
package ocmf
