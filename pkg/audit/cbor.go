package audit

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// auditEncMode is the CBOR encoder mode for audit events.
// Configured for nanosecond-precision timestamps and deterministic encoding.
var auditEncMode cbor.EncMode

// auditDecMode is the CBOR decoder mode for audit events.
// Tolerant of unknown fields so newer logs stay readable by older tools.
var auditDecMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	auditEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create audit CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	auditDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create audit CBOR decoder mode: %v", err))
	}
}

// EncodeEvent encodes an Event to CBOR bytes using integer keys for compactness.
func EncodeEvent(event Event) ([]byte, error) {
	return auditEncMode.Marshal(event)
}

// DecodeEvent decodes CBOR bytes into an Event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := auditDecMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// NewEncoder creates a CBOR encoder for audit events that writes to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return auditEncMode.NewEncoder(w)
}

// NewDecoder creates a CBOR decoder for audit events that reads from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return auditDecMode.NewDecoder(r)
}
