package eichrecht

import (
	"fmt"
	"strconv"

	"github.com/ocmf-tools/ocmf-go/pkg/ocmf"
)

// PaginationRule selects how page numbers must relate across a transaction
// pair. Most gateways emit one record per page (consecutive); some
// transparency formats repeat the page on both halves (identical).
type PaginationRule uint8

const (
	PaginationConsecutive PaginationRule = iota
	PaginationIdentical
)

// Checker evaluates calibration-law rules over validated payloads. The zero
// value uses the consecutive pagination convention.
type Checker struct {
	// Pagination is the page-number convention applied by CheckTransaction.
	Pagination PaginationRule
}

// NewChecker creates a Checker with default conventions.
func NewChecker() *Checker {
	return &Checker{}
}

// CheckTransaction checks a begin/end payload pair. The billing-relevant
// readings are the first of the begin record and the last of the end
// record. Issues come back in rule order; nothing short-circuits except a
// missing reading list.
func (c *Checker) CheckTransaction(begin, end *ocmf.Payload) []Issue {
	if len(begin.Readings) == 0 || len(end.Readings) == 0 {
		return []Issue{{
			Code:    CodeNoReadings,
			Field:   "RD",
			Message: "both transaction payloads must contain readings",
		}}
	}

	beginReading := &begin.Readings[0]
	endReading := &end.Readings[len(end.Readings)-1]

	var issues []Issue

	if beginReading.Transaction == nil || *beginReading.Transaction != ocmf.ReadingReasonBegin {
		issues = append(issues, Issue{
			Code:    CodeBeginTx,
			Field:   "RD[0].TX",
			Message: fmt.Sprintf("begin reading must have TX 'B', got %q", txString(beginReading)),
		})
	}
	if !endReading.IsEnd() {
		issues = append(issues, Issue{
			Code:    CodeEndTx,
			Field:   fmt.Sprintf("RD[%d].TX", len(end.Readings)-1),
			Message: fmt.Sprintf("%q is not a transaction end state", txString(endReading)),
		})
	}

	issues = append(issues, CheckReading(begin, beginReading, true)...)
	issues = append(issues, CheckReading(end, endReading, false)...)

	if begin.DeviceSerial() != end.DeviceSerial() {
		issues = append(issues, Issue{
			Code:    CodeDeviceMismatch,
			Field:   "GS/MS",
			Message: fmt.Sprintf("meter serial must match across the pair: begin %q, end %q", begin.DeviceSerial(), end.DeviceSerial()),
		})
	}

	if obisString(beginReading.Register) != obisString(endReading.Register) {
		issues = append(issues, Issue{
			Code:    CodeOBISMismatch,
			Field:   "RI",
			Message: fmt.Sprintf("register must match across the pair: begin %q, end %q", obisString(beginReading.Register), obisString(endReading.Register)),
		})
	}
	if beginReading.Unit != endReading.Unit {
		issues = append(issues, Issue{
			Code:    CodeOBISMismatch,
			Field:   "RU",
			Message: fmt.Sprintf("unit must match across the pair: begin %q, end %q", string(beginReading.Unit), string(endReading.Unit)),
		})
	}

	if beginReading.Value != nil && endReading.Value != nil &&
		endReading.Value.LessThan(*beginReading.Value) {
		issues = append(issues, Issue{
			Code:    CodeValueRegression,
			Field:   "RV",
			Message: fmt.Sprintf("end value %s is less than begin value %s", endReading.Value, beginReading.Value),
		})
	}

	if !beginReading.Time.IsZero() && !endReading.Time.IsZero() &&
		endReading.Time.Before(beginReading.Time) {
		issues = append(issues, Issue{
			Code:    CodeTimeRegression,
			Field:   "TM",
			Message: fmt.Sprintf("end timestamp %s is earlier than begin timestamp %s", endReading.Time, beginReading.Time),
		})
	}

	if invalidIdentificationLevel(begin.IdentificationLevel) {
		issues = append(issues, Issue{
			Code:    CodeIDLevelInvalid,
			Field:   "IL",
			Message: fmt.Sprintf("identification level %q on the begin record is not acceptable for billing", string(begin.IdentificationLevel)),
		})
	}
	if invalidIdentificationLevel(end.IdentificationLevel) {
		issues = append(issues, Issue{
			Code:    CodeIDLevelInvalid,
			Field:   "IL",
			Message: fmt.Sprintf("identification level %q on the end record is not acceptable for billing", string(end.IdentificationLevel)),
		})
	}

	if begin.Pagination != "" && end.Pagination != "" {
		if issue := c.checkPagination(begin.Pagination, end.Pagination); issue != nil {
			issues = append(issues, *issue)
		}
	}

	if begin.Identification != end.Identification {
		issues = append(issues, Issue{
			Code:     CodeIDMismatch,
			Severity: SeverityWarning,
			Field:    "ID",
			Message:  fmt.Sprintf("identification data differs across the pair: begin %q, end %q", begin.Identification, end.Identification),
		})
	}

	return issues
}

func (c *Checker) checkPagination(beginPG, endPG string) *Issue {
	if c.Pagination == PaginationIdentical {
		if beginPG != endPG {
			return &Issue{
				Code:    CodePagination,
				Field:   "PG",
				Message: fmt.Sprintf("page numbers must be identical: begin %q, end %q", beginPG, endPG),
			}
		}
		return nil
	}

	beginNum, beginErr := strconv.Atoi(beginPG[1:])
	endNum, endErr := strconv.Atoi(endPG[1:])
	if beginErr != nil || endErr != nil {
		return &Issue{
			Code:    CodePagination,
			Field:   "PG",
			Message: fmt.Sprintf("cannot parse page numbers: begin %q, end %q", beginPG, endPG),
		}
	}
	if endNum != beginNum+1 {
		return &Issue{
			Code:    CodePagination,
			Field:   "PG",
			Message: fmt.Sprintf("page numbers must be consecutive: begin %q, end %q", beginPG, endPG),
		}
	}
	return nil
}

// CheckPayload runs the reading-level rules over every reading of a single
// record. The first reading counts as a transaction begin when its TX is B.
func CheckPayload(p *ocmf.Payload) []Issue {
	if len(p.Readings) == 0 {
		return []Issue{{
			Code:    CodeNoReadings,
			Field:   "RD",
			Message: "payload contains no readings",
		}}
	}

	var issues []Issue
	for i := range p.Readings {
		reading := &p.Readings[i]
		isBegin := i == 0 && reading.Transaction != nil && *reading.Transaction == ocmf.ReadingReasonBegin
		issues = append(issues, CheckReading(p, reading, isBegin)...)
	}
	return issues
}

// CheckTransaction checks a begin/end pair with default conventions.
func CheckTransaction(begin, end *ocmf.Payload) []Issue {
	return NewChecker().CheckTransaction(begin, end)
}

func txString(r *ocmf.Reading) string {
	if r.Transaction == nil {
		return ""
	}
	return string(*r.Transaction)
}

func obisString(o *ocmf.OBIS) string {
	if o == nil {
		return ""
	}
	return o.String()
}

func invalidIdentificationLevel(level ocmf.IdentificationLevel) bool {
	switch level {
	case ocmf.IdentificationLevelMismatch, ocmf.IdentificationLevelInvalid,
		ocmf.IdentificationLevelOutdated, ocmf.IdentificationLevelUnknown:
		return true
	}
	return false
}
