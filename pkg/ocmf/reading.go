package ocmf

import (
	"errors"
	"fmt"
	"regexp"
)

// Reading is one validated meter reading from the RD array. Fields that were
// omitted on the wire and filled in from the previous reading carry the
// inherited values.
type Reading struct {
	Time          Timestamp      `json:"TM"`
	Transaction   *ReadingReason `json:"TX,omitempty"`
	Value         *Decimal       `json:"RV,omitempty"`
	Register      *OBIS          `json:"RI,omitempty"`
	Unit          Unit           `json:"RU"`
	CurrentType   CurrentType    `json:"RT,omitempty"`
	CumulatedLoss *Decimal       `json:"CL,omitempty"`
	ErrorFlags    *string        `json:"EF,omitempty"`
	Status        MeterStatus    `json:"ST"`
}

// IsEnd reports whether the reading closes a transaction.
func (r *Reading) IsEnd() bool {
	return r.Transaction != nil && r.Transaction.IsEnd()
}

// HasErrorFlags reports whether the meter flagged an energy or time error.
func (r *Reading) HasErrorFlags() bool {
	return r.ErrorFlags != nil && *r.ErrorFlags != ""
}

// readingWire is the raw JSON shape of one RD entry. Every field is a pointer
// so that omitted fields can be distinguished from zero values and filled in
// from the previous reading.
type readingWire struct {
	TM *string  `json:"TM"`
	TX *string  `json:"TX"`
	RV *Decimal `json:"RV"`
	RI *string  `json:"RI"`
	RU *string  `json:"RU"`
	RT *string  `json:"RT"`
	CL *Decimal `json:"CL"`
	EF *string  `json:"EF"`
	ST *string  `json:"ST"`
}

// Error flags are a sequence of E (energy error) and t (time error) markers.
var errorFlagsPattern = regexp.MustCompile(`^[Et]*$`)

// parseReading validates one wire entry after inheritance has been applied.
// Field errors carry the RD index so callers can tell readings apart.
func parseReading(index int, w *readingWire) (Reading, error) {
	var r Reading

	if w.TM == nil || *w.TM == "" {
		return r, FieldErrorf(readingField(index, "TM"), "", "required field is missing")
	}
	ts, err := ParseTimestamp(*w.TM)
	if err != nil {
		return r, prefixReadingField(err, index)
	}
	r.Time = ts

	if w.TX != nil {
		reason := ReadingReason(*w.TX)
		if !reason.IsValid() {
			return r, FieldErrorf(readingField(index, "TX"), *w.TX, "unknown reading reason")
		}
		r.Transaction = &reason
	}

	if w.RV != nil {
		if w.RV.IsNegative() {
			return r, FieldErrorf(readingField(index, "RV"), w.RV.String(), "reading value must not be negative")
		}
		r.Value = w.RV
	}

	if w.RI != nil {
		register, err := ParseOBIS(*w.RI)
		if err != nil {
			return r, prefixReadingField(err, index)
		}
		r.Register = &register
	}

	if w.RU == nil || *w.RU == "" {
		return r, FieldErrorf(readingField(index, "RU"), "", "required field is missing")
	}
	unit := Unit(*w.RU)
	if !unit.IsValid() {
		return r, FieldErrorf(readingField(index, "RU"), *w.RU, "unknown reading unit")
	}
	r.Unit = unit

	if w.RT != nil {
		current := CurrentType(*w.RT)
		if !current.IsValid() {
			return r, FieldErrorf(readingField(index, "RT"), *w.RT, "unknown current type")
		}
		r.CurrentType = current
	}

	if w.CL != nil {
		if r.Register == nil || !r.Register.IsAccumulationRegister() {
			return r, FieldErrorf(readingField(index, "CL"), w.CL.String(), "cumulated loss requires an accumulation register")
		}
		r.CumulatedLoss = w.CL
	}

	if w.EF != nil {
		if !errorFlagsPattern.MatchString(*w.EF) {
			return r, FieldErrorf(readingField(index, "EF"), *w.EF, "error flags may only contain E and t")
		}
		flags := *w.EF
		r.ErrorFlags = &flags
	}

	if w.ST == nil || *w.ST == "" {
		return r, FieldErrorf(readingField(index, "ST"), "", "required field is missing")
	}
	status := MeterStatus(*w.ST)
	if !status.IsValid() {
		return r, FieldErrorf(readingField(index, "ST"), *w.ST, "unknown meter status")
	}
	r.Status = status

	return r, nil
}

func readingField(index int, name string) string {
	return fmt.Sprintf("RD[%d].%s", index, name)
}

// prefixReadingField rewrites the field of a freshly built validation error
// so it names the reading it came from.
func prefixReadingField(err error, index int) error {
	var e *Error
	if errors.As(err, &e) && e.Field != "" {
		e.Field = fmt.Sprintf("RD[%d].%s", index, e.Field)
	}
	return err
}
