package ocmf

import "testing"

func TestIdentificationFlagFamily(t *testing.T) {
	tests := []struct {
		flag   IdentificationFlag
		family string
		none   bool
	}{
		{FlagRFIDNone, "RFID", true},
		{FlagRFIDPlain, "RFID", false},
		{FlagOCPPAuthTLS, "OCPP", false},
		{FlagISO15118None, "ISO15118", true},
		{FlagPLMNSMS, "PLMN", false},
		{IdentificationFlag("NOPE"), "", false},
	}

	for _, tt := range tests {
		if got := tt.flag.Family(); got != tt.family {
			t.Errorf("%q.Family() = %q, want %q", tt.flag, got, tt.family)
		}
		if got := tt.flag.IsNone(); got != tt.none {
			t.Errorf("%q.IsNone() = %v, want %v", tt.flag, got, tt.none)
		}
		if got := tt.flag.IsValid(); got != (tt.family != "") {
			t.Errorf("%q.IsValid() = %v", tt.flag, got)
		}
	}
}

func TestReadingReasonIsEnd(t *testing.T) {
	ends := []ReadingReason{
		ReadingReasonEnd,
		ReadingReasonEndLocal,
		ReadingReasonEndRemote,
		ReadingReasonEndAbort,
		ReadingReasonEndPowerFailure,
	}
	for _, r := range ends {
		if !r.IsEnd() {
			t.Errorf("%q.IsEnd() = false, want true", r)
		}
	}

	others := []ReadingReason{
		ReadingReasonBegin,
		ReadingReasonCharging,
		ReadingReasonException,
		ReadingReasonSuspended,
		ReadingReasonTariffChange,
	}
	for _, r := range others {
		if r.IsEnd() {
			t.Errorf("%q.IsEnd() = true, want false", r)
		}
	}
}

func TestUnitIsResistance(t *testing.T) {
	if !UnitMilliohm.IsResistance() || !UnitOhm.IsResistance() {
		t.Error("resistance units not recognized")
	}
	if UnitKilowattHour.IsResistance() || UnitSecond.IsResistance() {
		t.Error("non-resistance unit reported as resistance")
	}
}

func TestMeterStatusValid(t *testing.T) {
	for _, s := range []MeterStatus{
		MeterStatusNotPresent, MeterStatusOK, MeterStatusTimeout,
		MeterStatusDisconnected, MeterStatusNotFound, MeterStatusManipulated,
		MeterStatusExchanged, MeterStatusIncompatible, MeterStatusOutOfRange,
		MeterStatusSubstitute, MeterStatusOtherError, MeterStatusReadError,
	} {
		if !s.IsValid() {
			t.Errorf("%q.IsValid() = false, want true", s)
		}
	}
	if MeterStatus("Q").IsValid() {
		t.Error(`MeterStatus("Q").IsValid() = true, want false`)
	}
}
