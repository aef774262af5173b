package eichrecht

import (
	"encoding/json"
	"fmt"
)

// Code identifies a compliance rule.
type Code string

// Reading-level codes.
const (
	CodeMeterStatus Code = "METER_STATUS"
	CodeErrorFlags  Code = "ERROR_FLAGS"
	CodeTimeSync    Code = "TIME_SYNC"
	CodeCableLoss   Code = "CABLE_LOSS"
	CodeUserID      Code = "USER_ID"
)

// Transaction-level codes.
const (
	CodeNoReadings      Code = "NO_READINGS"
	CodeBeginTx         Code = "BEGIN_TX"
	CodeEndTx           Code = "END_TX"
	CodeDeviceMismatch  Code = "DEVICE_MISMATCH"
	CodeOBISMismatch    Code = "OBIS_MISMATCH"
	CodeValueRegression Code = "VALUE_REGRESSION"
	CodeTimeRegression  Code = "TIME_REGRESSION"
	CodeIDLevelInvalid  Code = "ID_LEVEL_INVALID"
	CodePagination      Code = "PAGINATION"
	CodeIDMismatch      Code = "ID_MISMATCH"
)

// Severity ranks an issue. The zero value is an error; only errors block
// compliance.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Issue is one detected compliance problem. Field names the record field
// the rule tripped on, in the record's own key notation.
type Issue struct {
	Code     Code     `json:"code"`
	Severity Severity `json:"severity"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	if i.Field != "" {
		return fmt.Sprintf("[%s] %s (%s)", i.Field, i.Message, i.Code)
	}
	return fmt.Sprintf("%s (%s)", i.Message, i.Code)
}

// Compliant reports whether issues contains no error-severity entry.
// Warnings do not block compliance.
func Compliant(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Errors filters issues down to the error-severity entries.
func Errors(issues []Issue) []Issue {
	var errs []Issue
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			errs = append(errs, issue)
		}
	}
	return errs
}
