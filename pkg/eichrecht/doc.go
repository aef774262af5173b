// Package eichrecht evaluates metering records against the German
// calibration-law rules for billing-relevant readings (MID 2014/32/EU and
// the PTB requirements).
//
// The checks are pure functions over already-validated payloads: they never
// return errors, only ordered issue lists. An Issue carries a stable code,
// a severity, and the record field it tripped on. Reading-level rules
// (meter status, error flags, time synchronization, loss compensation, user
// identification) apply to single readings; transaction rules compare the
// first reading of a begin record with the last reading of an end record.
// Compliant reports whether an issue list is free of errors; warnings such
// as unsynchronized clocks do not block billing.
package eichrecht
