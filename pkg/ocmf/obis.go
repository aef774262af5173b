package ocmf

import (
	"encoding/json"
	"regexp"
	"strings"
)

// OBIS identifies the meter register a reading was taken from (RI). Code is
// the normalized register identifier; Suffix is the optional part after the
// asterisk.
type OBIS struct {
	Code   string
	Suffix string
}

// Accepted register identifier syntax: the reserved OCMF form with zero-padded
// hex byte pairs and a mandatory suffix, or the flexible IEC 62056-6-1/6-2
// form with 1-2 hex digits per group and an optional suffix.
var (
	obisReservedPattern = regexp.MustCompile(`^[0-9A-F]{2}-[0-9A-F]{2}:[0-9A-F]{2}\.[0-9A-F]{2}\.[0-9A-F]{2}\*[0-9A-F]{2}$`)
	obisFlexiblePattern = regexp.MustCompile(`^[0-9A-Fa-f]{1,2}-[0-9A-Fa-f]{1,2}:[0-9A-Fa-f]{1,2}\.[0-9A-Fa-f]{1,2}\.[0-9A-Fa-f]{1,2}(\*[0-9A-Fa-f]{1,3})?$`)

	accumulationRegisterPattern = regexp.MustCompile(`^01-00:[BC][0-3]\.08\.00$`)
	transactionRegisterPattern  = regexp.MustCompile(`^01-00:[BC][23]\.08\.00$`)
	standardEnergyPattern       = regexp.MustCompile(`^01-00:0[12]\.08\.00$`)
)

// ParseOBIS parses a register identifier string into its normalized code and
// optional suffix.
func ParseOBIS(s string) (OBIS, error) {
	if !obisReservedPattern.MatchString(s) && !obisFlexiblePattern.MatchString(s) {
		return OBIS{}, FieldErrorf("RI", s, "invalid register identifier")
	}
	code, suffix, _ := strings.Cut(s, "*")
	return OBIS{Code: code, Suffix: suffix}, nil
}

// String returns the identifier with its suffix if present.
func (o OBIS) String() string {
	if o.Suffix != "" {
		return o.Code + "*" + o.Suffix
	}
	return o.Code
}

// IsZero reports whether o is the zero value.
func (o OBIS) IsZero() bool {
	return o.Code == "" && o.Suffix == ""
}

// IsAccumulationRegister reports whether the code names one of the eight
// reserved accumulation registers (import B0-B3, export C0-C3).
func (o OBIS) IsAccumulationRegister() bool {
	return accumulationRegisterPattern.MatchString(o.Code)
}

// IsTransactionRegister reports whether the code names a transaction-scoped
// register (B2-B3, C2-C3) as opposed to a total register.
func (o OBIS) IsTransactionRegister() bool {
	return transactionRegisterPattern.MatchString(o.Code)
}

// IsBillingRelevant reports whether readings from this register may be used
// for billing. Known registers answer from the registry; unknown codes fall
// back to the reserved accumulation and standard energy patterns.
func (o OBIS) IsBillingRelevant() bool {
	if info, ok := LookupRegister(o.Code); ok {
		return info.BillingRelevant
	}
	return o.IsAccumulationRegister() || standardEnergyPattern.MatchString(o.Code)
}

// Info returns the registry entry for this code, if known.
func (o OBIS) Info() (RegisterInfo, bool) {
	return LookupRegister(o.Code)
}

// MarshalJSON emits the identifier as a JSON string.
func (o OBIS) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON parses the identifier from a JSON string.
func (o *OBIS) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return FieldErrorf("RI", string(data), "register identifier must be a JSON string")
	}
	parsed, err := ParseOBIS(s)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// RegisterCategory classifies what a register measures.
type RegisterCategory string

const (
	CategoryImport RegisterCategory = "import"
	CategoryExport RegisterCategory = "export"
	CategoryPower  RegisterCategory = "power"
	CategoryOther  RegisterCategory = "other"
)

// RegisterInfo describes a known meter register.
type RegisterInfo struct {
	Code            string
	Description     string
	BillingRelevant bool
	Category        RegisterCategory
}

// registers holds the known register codes: the eight reserved accumulation
// registers, common IEC energy and power registers, and the legacy codes
// produced by older firmware.
var registers = map[string]RegisterInfo{
	"01-00:B0.08.00": {"01-00:B0.08.00", "Total import mains energy", true, CategoryImport},
	"01-00:B1.08.00": {"01-00:B1.08.00", "Total import device energy", true, CategoryImport},
	"01-00:B2.08.00": {"01-00:B2.08.00", "Transaction import mains energy", true, CategoryImport},
	"01-00:B3.08.00": {"01-00:B3.08.00", "Transaction import device energy", true, CategoryImport},
	"01-00:C0.08.00": {"01-00:C0.08.00", "Total export mains energy", true, CategoryExport},
	"01-00:C1.08.00": {"01-00:C1.08.00", "Total export device energy", true, CategoryExport},
	"01-00:C2.08.00": {"01-00:C2.08.00", "Transaction export mains energy", true, CategoryExport},
	"01-00:C3.08.00": {"01-00:C3.08.00", "Transaction export device energy", true, CategoryExport},

	"01-00:00.08.06": {"01-00:00.08.06", "Charging duration", false, CategoryOther},
	"01-00:01.08.00": {"01-00:01.08.00", "Active energy import (+A) total", true, CategoryImport},
	"01-00:02.08.00": {"01-00:02.08.00", "Active energy export (-A) total", true, CategoryExport},
	"01-00:16.07.00": {"01-00:16.07.00", "Sum active power", false, CategoryPower},

	"1-b:1.8.0": {"1-b:1.8.0", "Active energy import (+A), legacy", true, CategoryImport},
	"1-b:2.8.0": {"1-b:2.8.0", "Active energy export (-A), legacy", true, CategoryExport},
}

// LookupRegister returns the registry entry for a register code. The suffix
// is stripped before lookup.
func LookupRegister(code string) (RegisterInfo, bool) {
	normalized, _, _ := strings.Cut(code, "*")
	info, ok := registers[normalized]
	return info, ok
}
