package ocmf

import (
	"bytes"
	"encoding/json"
	"regexp"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Payload is the validated first JSON segment of a record. Field order
// matches the wire layout so canonical encoding keeps the conventional key
// order.
type Payload struct {
	FormatVersion        string               `json:"FV,omitempty"`
	GatewayIdentity      string               `json:"GI,omitempty"`
	GatewaySerial        string               `json:"GS,omitempty"`
	GatewayVersion       string               `json:"GV,omitempty"`
	Pagination           string               `json:"PG"`
	MeterVendor          string               `json:"MV,omitempty"`
	MeterModel           string               `json:"MM,omitempty"`
	MeterSerial          string               `json:"MS,omitempty"`
	MeterFirmware        string               `json:"MF,omitempty"`
	IdentificationStatus bool                 `json:"IS"`
	IdentificationLevel  IdentificationLevel  `json:"IL,omitempty"`
	IdentificationFlags  []IdentificationFlag `json:"IF,omitempty"`
	IdentificationType   IdentificationType   `json:"IT,omitempty"`
	Identification       string               `json:"ID,omitempty"`
	TariffText           string               `json:"TT,omitempty"`
	ControllerFirmware   string               `json:"CF,omitempty"`
	LossCompensation     *LossCompensation    `json:"LC,omitempty"`
	ChargePointType      string               `json:"CT,omitempty"`
	ChargePointID        string               `json:"CI,omitempty"`
	Readings             []Reading            `json:"RD"`
}

// DeviceSerial returns the gateway serial number, falling back to the meter
// serial when the gateway field is empty. One of the two is always set.
func (p *Payload) DeviceSerial() string {
	if p.GatewaySerial != "" {
		return p.GatewaySerial
	}
	return p.MeterSerial
}

// LossCompensation describes the cable resistance applied to compensate
// energy measured at the meter for losses on the way to the vehicle (LC).
type LossCompensation struct {
	Name           string  `json:"LN,omitempty"`
	Identification *int    `json:"LI,omitempty"`
	Resistance     Decimal `json:"LR"`
	Unit           Unit    `json:"LU"`
}

// Pagination is a context letter (T for transactional, F for fiscal)
// followed by a counter without leading zeros.
var paginationPattern = regexp.MustCompile(`^[TF][1-9][0-9]*$`)

// payloadWire is the raw JSON shape of the payload segment. Pointers keep
// absent fields distinguishable from zero values.
type payloadWire struct {
	FV *flexString     `json:"FV"`
	GI *string         `json:"GI"`
	GS *string         `json:"GS"`
	GV *string         `json:"GV"`
	PG *string         `json:"PG"`
	MV *string         `json:"MV"`
	MM *string         `json:"MM"`
	MS *string         `json:"MS"`
	MF *string         `json:"MF"`
	IS *bool           `json:"IS"`
	IL *string         `json:"IL"`
	IF []string        `json:"IF"`
	IT *string         `json:"IT"`
	ID *string         `json:"ID"`
	TT *string         `json:"TT"`
	CF *string         `json:"CF"`
	LC *lossWire       `json:"LC"`
	CT json.RawMessage `json:"CT"`
	CI *string         `json:"CI"`
	RD []readingWire   `json:"RD"`
}

type lossWire struct {
	LN *string  `json:"LN"`
	LI *int     `json:"LI"`
	LR *Decimal `json:"LR"`
	LU *string  `json:"LU"`
}

// flexString accepts both JSON strings and JSON numbers; some firmware emits
// the format version as a bare number.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = flexString(num.String())
	return nil
}

// ParsePayload validates a raw payload segment. Readings are validated after
// field inheritance has been applied; the first violation is returned.
func ParsePayload(data []byte) (*Payload, error) {
	var w payloadWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, Wrap(KindPayload, err, "invalid payload JSON")
	}

	// Omitted reading fields inherit from the previous entry before any
	// per-reading validation runs.
	for i := 1; i < len(w.RD); i++ {
		prev, cur := &w.RD[i-1], &w.RD[i]
		inherit(&cur.TM, prev.TM)
		inherit(&cur.TX, prev.TX)
		inherit(&cur.RI, prev.RI)
		inherit(&cur.RU, prev.RU)
		inherit(&cur.RT, prev.RT)
		inherit(&cur.EF, prev.EF)
		inherit(&cur.ST, prev.ST)
	}

	p := &Payload{
		GatewayIdentity: stringValue(w.GI),
		GatewaySerial:   stringValue(w.GS),
		GatewayVersion:  stringValue(w.GV),
		MeterVendor:     stringValue(w.MV),
		MeterModel:      stringValue(w.MM),
		MeterSerial:     stringValue(w.MS),
		MeterFirmware:   stringValue(w.MF),
		Identification:  stringValue(w.ID),
		TariffText:      stringValue(w.TT),
		ChargePointID:   stringValue(w.CI),
	}
	if w.FV != nil {
		p.FormatVersion = string(*w.FV)
	}
	if w.CF != nil {
		p.ControllerFirmware = *w.CF
	}

	if w.PG == nil || *w.PG == "" {
		return nil, FieldErrorf("PG", "", "required field is missing")
	}
	if !paginationPattern.MatchString(*w.PG) {
		return nil, FieldErrorf("PG", *w.PG, "pagination must be T or F followed by a number without leading zeros")
	}
	p.Pagination = *w.PG

	if w.IS == nil {
		return nil, FieldErrorf("IS", "", "required field is missing")
	}
	p.IdentificationStatus = *w.IS

	if w.IL != nil {
		level := IdentificationLevel(*w.IL)
		if !level.IsValid() {
			return nil, FieldErrorf("IL", *w.IL, "unknown identification level")
		}
		p.IdentificationLevel = level
	}

	if len(w.IF) > 0 {
		flags, err := parseIdentificationFlags(w.IF)
		if err != nil {
			return nil, err
		}
		p.IdentificationFlags = flags
	}

	p.IdentificationType = IdentificationTypeNone
	if w.IT != nil {
		it := IdentificationType(*w.IT)
		if !it.IsValid() {
			return nil, FieldErrorf("IT", *w.IT, "unknown identification type")
		}
		p.IdentificationType = it
	}

	if err := validateIdentification(p.IdentificationType, p.Identification); err != nil {
		return nil, err
	}

	if utf8.RuneCountInString(p.TariffText) > 250 {
		return nil, FieldErrorf("TT", p.TariffText, "tariff text must not exceed 250 characters")
	}
	if utf8.RuneCountInString(p.ControllerFirmware) > 25 {
		return nil, FieldErrorf("CF", p.ControllerFirmware, "controller firmware must not exceed 25 characters")
	}

	if w.LC != nil {
		lc, err := parseLossCompensation(w.LC)
		if err != nil {
			return nil, err
		}
		p.LossCompensation = lc
	}

	ct, err := normalizeChargePointType(w.CT)
	if err != nil {
		return nil, err
	}
	p.ChargePointType = ct

	if len(w.RD) == 0 {
		return nil, FieldErrorf("RD", "", "at least one reading is required")
	}
	p.Readings = make([]Reading, 0, len(w.RD))
	for i := range w.RD {
		reading, err := parseReading(i, &w.RD[i])
		if err != nil {
			return nil, err
		}
		p.Readings = append(p.Readings, reading)
	}

	if p.GatewaySerial == "" && p.MeterSerial == "" {
		return nil, FieldErrorf("GS/MS", "", "either gateway serial or meter serial is required")
	}
	if err := validateTransactionSequence(p.Readings); err != nil {
		return nil, err
	}

	return p, nil
}

// inherit copies the previous reading's value into field when the current
// one was omitted.
func inherit[T any](field **T, prev *T) {
	if *field == nil {
		*field = prev
	}
}

func stringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func parseIdentificationFlags(raw []string) ([]IdentificationFlag, error) {
	flags := make([]IdentificationFlag, 0, len(raw))
	allNone := true
	for _, value := range raw {
		flag := IdentificationFlag(value)
		if !flag.IsValid() {
			return nil, FieldErrorf("IF", value, "unknown identification flag")
		}
		if !flag.IsNone() {
			allNone = false
		}
		flags = append(flags, flag)
	}
	// A set of *_NONE markers across all families is the conventional way to
	// state "no identification medium"; anything else must stay within one
	// family.
	if !allNone {
		family := flags[0].Family()
		for _, flag := range flags[1:] {
			if flag.Family() != family {
				return nil, FieldErrorf("IF", string(flag), "identification flags mix %s and %s families", family, flag.Family())
			}
		}
	}
	return flags, nil
}

var (
	iso14443Pattern = regexp.MustCompile(`^[0-9a-fA-F]{8}$|^[0-9a-fA-F]{14}$`)
	iso15693Pattern = regexp.MustCompile(`^[0-9a-fA-F]{16}$`)
	emaidPattern    = regexp.MustCompile(`^[A-Za-z0-9]{14,15}$`)
	evcoidPattern   = regexp.MustCompile(`^[A-Z]{2,3}-[A-Z0-9]{2,3}-[0-9]{6}-[0-9]$`)
	iso7812Pattern  = regexp.MustCompile(`^[0-9]{8,19}$`)
	phonePattern    = regexp.MustCompile(`^\+[0-9]{7,15}$`)
)

// validateIdentification checks the identification data against the format
// its type prescribes. Types without a prescribed format accept anything;
// empty data is only rejected where the type forbids data altogether.
func validateIdentification(it IdentificationType, id string) error {
	switch it {
	case IdentificationTypeNone, IdentificationTypeDenied, IdentificationTypeUndefined:
		if id != "" {
			return FieldErrorf("ID", id, "identification data not allowed for type %s", it)
		}
		return nil
	}
	if id == "" {
		return nil
	}
	switch it {
	case IdentificationTypeISO14443:
		if !iso14443Pattern.MatchString(id) {
			return FieldErrorf("ID", id, "ISO 14443 UID must be 8 or 14 hex characters")
		}
	case IdentificationTypeISO15693:
		if !iso15693Pattern.MatchString(id) {
			return FieldErrorf("ID", id, "ISO 15693 UID must be 16 hex characters")
		}
	case IdentificationTypeEMAID:
		if !emaidPattern.MatchString(id) {
			return FieldErrorf("ID", id, "EMAID must be 14 or 15 alphanumeric characters")
		}
	case IdentificationTypeEVCCID:
		if utf8.RuneCountInString(id) > 6 {
			return FieldErrorf("ID", id, "EVCCID must not exceed 6 characters")
		}
	case IdentificationTypeEVCOID:
		if !evcoidPattern.MatchString(id) {
			return FieldErrorf("ID", id, "EVCOID must match the contract identifier format")
		}
	case IdentificationTypeISO7812:
		if !iso7812Pattern.MatchString(id) {
			return FieldErrorf("ID", id, "ISO 7812 number must be 8 to 19 digits")
		}
	case IdentificationTypePhoneNumber:
		if !phonePattern.MatchString(id) {
			return FieldErrorf("ID", id, "phone number must be in international format")
		}
	}
	return nil
}

func parseLossCompensation(w *lossWire) (*LossCompensation, error) {
	lc := &LossCompensation{Name: stringValue(w.LN)}
	if utf8.RuneCountInString(lc.Name) > 20 {
		return nil, FieldErrorf("LC.LN", lc.Name, "loss compensation name must not exceed 20 characters")
	}
	lc.Identification = w.LI
	if w.LR == nil {
		return nil, FieldErrorf("LC.LR", "", "required field is missing")
	}
	lc.Resistance = *w.LR
	if w.LU == nil || *w.LU == "" {
		return nil, FieldErrorf("LC.LU", "", "required field is missing")
	}
	unit := Unit(*w.LU)
	if !unit.IsResistance() {
		return nil, FieldErrorf("LC.LU", *w.LU, "loss compensation unit must be mOhm or Ohm")
	}
	lc.Unit = unit
	return lc, nil
}

// normalizeChargePointType maps the free-form CT value to a string. Some
// producers emit numbers here; zero and the empty string mean absent.
func normalizeChargePointType(raw json.RawMessage) (string, error) {
	data := bytes.TrimSpace(raw)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", FieldErrorf("CT", string(raw), "invalid charge point type")
		}
		return s, nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return "", FieldErrorf("CT", string(raw), "charge point type must be a string")
	}
	if d.IsZero() {
		return "", nil
	}
	return d.String(), nil
}

// validateTransactionSequence checks the TX ordering across a multi-reading
// payload: a begin may not follow an end, an end requires a begin, and
// intermediate states may not follow an end. Single readings are exempt so
// that begin and end records transmitted separately stay valid.
func validateTransactionSequence(readings []Reading) error {
	if len(readings) < 2 {
		return nil
	}
	var beginSeen, endSeen bool
	for i := range readings {
		tx := readings[i].Transaction
		if tx == nil {
			continue
		}
		switch {
		case *tx == ReadingReasonBegin:
			if endSeen {
				return FieldErrorf(readingField(i, "TX"), string(*tx), "begin reading after transaction end")
			}
			beginSeen = true
		case tx.IsEnd():
			if !beginSeen {
				return FieldErrorf(readingField(i, "TX"), string(*tx), "end reading without a begin reading")
			}
			endSeen = true
		default:
			if endSeen {
				return FieldErrorf(readingField(i, "TX"), string(*tx), "intermediate reading after transaction end")
			}
		}
	}
	return nil
}
