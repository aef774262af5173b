package eichrecht

import (
	"fmt"

	"github.com/ocmf-tools/ocmf-go/pkg/ocmf"
)

// CheckReading flags compliance problems on a single billing-relevant
// reading. payload supplies record-level context for the identification
// rule and may be nil; isBegin selects the stricter transaction-begin
// rules.
func CheckReading(payload *ocmf.Payload, reading *ocmf.Reading, isBegin bool) []Issue {
	var issues []Issue

	if reading.Status != ocmf.MeterStatusOK {
		issues = append(issues, Issue{
			Code:    CodeMeterStatus,
			Field:   "ST",
			Message: fmt.Sprintf("meter status must be 'G' for billing-relevant readings, got %q", string(reading.Status)),
		})
	}

	if reading.HasErrorFlags() {
		issues = append(issues, Issue{
			Code:    CodeErrorFlags,
			Field:   "EF",
			Message: fmt.Sprintf("error flags must be empty for billing-relevant readings, got %q", *reading.ErrorFlags),
		})
	}

	if reading.Time.Status != ocmf.TimeStatusSynchronized {
		issues = append(issues, Issue{
			Code:     CodeTimeSync,
			Severity: SeverityWarning,
			Field:    "TM",
			Message:  fmt.Sprintf("time should be synchronized for billing, got status %q", string(reading.Time.Status)),
		})
	}

	if reading.CumulatedLoss != nil {
		if isBegin && reading.CumulatedLoss.Sign() != 0 {
			issues = append(issues, Issue{
				Code:    CodeCableLoss,
				Field:   "CL",
				Message: fmt.Sprintf("cumulated loss must be 0 at transaction begin, got %s", reading.CumulatedLoss),
			})
		}
		if reading.CumulatedLoss.Sign() < 0 {
			issues = append(issues, Issue{
				Code:    CodeCableLoss,
				Field:   "CL",
				Message: fmt.Sprintf("cumulated loss must be non-negative, got %s", reading.CumulatedLoss),
			})
		}
	}

	if isBegin && payload != nil && payload.IdentificationStatus && payload.Identification == "" {
		issues = append(issues, Issue{
			Code:    CodeUserID,
			Field:   "ID",
			Message: "identification status claims a user was identified but the record carries no identification data",
		})
	}

	return issues
}
