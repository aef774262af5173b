package ocmf

import "strings"

// IdentificationLevel states how trustworthy the user assignment is (IL).
type IdentificationLevel string

const (
	// IdentificationLevelNone indicates no user assignment at all.
	IdentificationLevelNone IdentificationLevel = "NONE"
	// IdentificationLevelHearsay indicates an unsecured assignment.
	IdentificationLevelHearsay IdentificationLevel = "HEARSAY"
	// IdentificationLevelTrusted indicates an assignment by a trusted party.
	IdentificationLevelTrusted IdentificationLevel = "TRUSTED"
	// IdentificationLevelVerified indicates a verified assignment.
	IdentificationLevelVerified IdentificationLevel = "VERIFIED"
	// IdentificationLevelCertified indicates a certificate-backed assignment.
	IdentificationLevelCertified IdentificationLevel = "CERTIFIED"
	// IdentificationLevelSecure indicates a hardware-secured assignment.
	IdentificationLevelSecure IdentificationLevel = "SECURE"
	// IdentificationLevelMismatch indicates the user ID did not match.
	IdentificationLevelMismatch IdentificationLevel = "MISMATCH"
	// IdentificationLevelInvalid indicates an incorrect certificate.
	IdentificationLevelInvalid IdentificationLevel = "INVALID"
	// IdentificationLevelOutdated indicates an expired certificate.
	IdentificationLevelOutdated IdentificationLevel = "OUTDATED"
	// IdentificationLevelUnknown indicates a certificate that could not be
	// verified.
	IdentificationLevelUnknown IdentificationLevel = "UNKNOWN"
)

// IsValid reports whether l is one of the defined levels.
func (l IdentificationLevel) IsValid() bool {
	switch l {
	case IdentificationLevelNone, IdentificationLevelHearsay, IdentificationLevelTrusted,
		IdentificationLevelVerified, IdentificationLevelCertified, IdentificationLevelSecure,
		IdentificationLevelMismatch, IdentificationLevelInvalid, IdentificationLevelOutdated,
		IdentificationLevelUnknown:
		return true
	}
	return false
}

// IdentificationFlag describes one user assignment method (IF). Flags come in
// four families (RFID, OCPP, ISO 15118, PLMN) and a payload may not mix
// families unless every flag is a *_NONE value.
type IdentificationFlag string

const (
	FlagRFIDNone    IdentificationFlag = "RFID_NONE"
	FlagRFIDPlain   IdentificationFlag = "RFID_PLAIN"
	FlagRFIDRelated IdentificationFlag = "RFID_RELATED"
	FlagRFIDPSK     IdentificationFlag = "RFID_PSK"

	FlagOCPPNone      IdentificationFlag = "OCPP_NONE"
	FlagOCPPRS        IdentificationFlag = "OCPP_RS"
	FlagOCPPAuth      IdentificationFlag = "OCPP_AUTH"
	FlagOCPPRSTLS     IdentificationFlag = "OCPP_RS_TLS"
	FlagOCPPAuthTLS   IdentificationFlag = "OCPP_AUTH_TLS"
	FlagOCPPCache     IdentificationFlag = "OCPP_CACHE"
	FlagOCPPWhitelist IdentificationFlag = "OCPP_WHITELIST"
	FlagOCPPCertified IdentificationFlag = "OCPP_CERTIFIED"

	FlagISO15118None IdentificationFlag = "ISO15118_NONE"
	FlagISO15118PnC  IdentificationFlag = "ISO15118_PNC"

	FlagPLMNNone IdentificationFlag = "PLMN_NONE"
	FlagPLMNRing IdentificationFlag = "PLMN_RING"
	FlagPLMNSMS  IdentificationFlag = "PLMN_SMS"
)

// Family returns the assignment family the flag belongs to (RFID, OCPP,
// ISO15118 or PLMN), or the empty string for an unknown flag.
func (f IdentificationFlag) Family() string {
	switch f {
	case FlagRFIDNone, FlagRFIDPlain, FlagRFIDRelated, FlagRFIDPSK:
		return "RFID"
	case FlagOCPPNone, FlagOCPPRS, FlagOCPPAuth, FlagOCPPRSTLS, FlagOCPPAuthTLS,
		FlagOCPPCache, FlagOCPPWhitelist, FlagOCPPCertified:
		return "OCPP"
	case FlagISO15118None, FlagISO15118PnC:
		return "ISO15118"
	case FlagPLMNNone, FlagPLMNRing, FlagPLMNSMS:
		return "PLMN"
	}
	return ""
}

// IsValid reports whether f is one of the defined flags.
func (f IdentificationFlag) IsValid() bool {
	return f.Family() != ""
}

// IsNone reports whether the flag marks the absence of assignment via its
// family.
func (f IdentificationFlag) IsNone() bool {
	return strings.HasSuffix(string(f), "_NONE")
}

// IdentificationType names the kind of credential carried in ID (IT).
type IdentificationType string

const (
	IdentificationTypeNone        IdentificationType = "NONE"
	IdentificationTypeDenied      IdentificationType = "DENIED"
	IdentificationTypeUndefined   IdentificationType = "UNDEFINED"
	IdentificationTypeISO14443    IdentificationType = "ISO14443"
	IdentificationTypeISO15693    IdentificationType = "ISO15693"
	IdentificationTypeEMAID       IdentificationType = "EMAID"
	IdentificationTypeEVCCID      IdentificationType = "EVCCID"
	IdentificationTypeEVCOID      IdentificationType = "EVCOID"
	IdentificationTypeISO7812     IdentificationType = "ISO7812"
	IdentificationTypeCardTxnNr   IdentificationType = "CARD_TXN_NR"
	IdentificationTypeCentral     IdentificationType = "CENTRAL"
	IdentificationTypeCentral1    IdentificationType = "CENTRAL_1"
	IdentificationTypeCentral2    IdentificationType = "CENTRAL_2"
	IdentificationTypeLocal       IdentificationType = "LOCAL"
	IdentificationTypeLocal1      IdentificationType = "LOCAL_1"
	IdentificationTypeLocal2      IdentificationType = "LOCAL_2"
	IdentificationTypePhoneNumber IdentificationType = "PHONE_NUMBER"
	IdentificationTypeKeyCode     IdentificationType = "KEY_CODE"
)

// IsValid reports whether t is one of the defined types.
func (t IdentificationType) IsValid() bool {
	switch t {
	case IdentificationTypeNone, IdentificationTypeDenied, IdentificationTypeUndefined,
		IdentificationTypeISO14443, IdentificationTypeISO15693, IdentificationTypeEMAID,
		IdentificationTypeEVCCID, IdentificationTypeEVCOID, IdentificationTypeISO7812,
		IdentificationTypeCardTxnNr, IdentificationTypeCentral, IdentificationTypeCentral1,
		IdentificationTypeCentral2, IdentificationTypeLocal, IdentificationTypeLocal1,
		IdentificationTypeLocal2, IdentificationTypePhoneNumber, IdentificationTypeKeyCode:
		return true
	}
	return false
}

// ReadingReason is the trigger for taking a meter reading (TX).
type ReadingReason string

const (
	// ReadingReasonBegin marks the start of a transaction.
	ReadingReasonBegin ReadingReason = "B"
	// ReadingReasonCharging marks a reading taken while charging.
	ReadingReasonCharging ReadingReason = "C"
	// ReadingReasonException marks a reading taken on an exceptional event.
	ReadingReasonException ReadingReason = "X"
	// ReadingReasonEnd marks a regular transaction end.
	ReadingReasonEnd ReadingReason = "E"
	// ReadingReasonEndLocal marks a transaction ended locally.
	ReadingReasonEndLocal ReadingReason = "L"
	// ReadingReasonEndRemote marks a transaction ended remotely.
	ReadingReasonEndRemote ReadingReason = "R"
	// ReadingReasonEndAbort marks an aborted transaction.
	ReadingReasonEndAbort ReadingReason = "A"
	// ReadingReasonEndPowerFailure marks a transaction ended by power loss.
	ReadingReasonEndPowerFailure ReadingReason = "P"
	// ReadingReasonSuspended marks a reading taken while suspended.
	ReadingReasonSuspended ReadingReason = "S"
	// ReadingReasonTariffChange marks a reading taken on a tariff change.
	ReadingReasonTariffChange ReadingReason = "T"
)

// IsValid reports whether r is one of the defined reasons.
func (r ReadingReason) IsValid() bool {
	switch r {
	case ReadingReasonBegin, ReadingReasonCharging, ReadingReasonException,
		ReadingReasonEnd, ReadingReasonEndLocal, ReadingReasonEndRemote,
		ReadingReasonEndAbort, ReadingReasonEndPowerFailure,
		ReadingReasonSuspended, ReadingReasonTariffChange:
		return true
	}
	return false
}

// IsEnd reports whether the reason terminates a transaction.
func (r ReadingReason) IsEnd() bool {
	switch r {
	case ReadingReasonEnd, ReadingReasonEndLocal, ReadingReasonEndRemote,
		ReadingReasonEndAbort, ReadingReasonEndPowerFailure:
		return true
	}
	return false
}

// MeterStatus is the meter state at the time of a reading (ST).
// MeterStatusOK is the only code acceptable for billing.
type MeterStatus string

const (
	MeterStatusNotPresent   MeterStatus = "N"
	MeterStatusOK           MeterStatus = "G"
	MeterStatusTimeout      MeterStatus = "T"
	MeterStatusDisconnected MeterStatus = "D"
	MeterStatusNotFound     MeterStatus = "R"
	MeterStatusManipulated  MeterStatus = "M"
	MeterStatusExchanged    MeterStatus = "X"
	MeterStatusIncompatible MeterStatus = "I"
	MeterStatusOutOfRange   MeterStatus = "O"
	MeterStatusSubstitute   MeterStatus = "S"
	MeterStatusOtherError   MeterStatus = "E"
	MeterStatusReadError    MeterStatus = "F"
)

// IsValid reports whether s is one of the defined status codes.
func (s MeterStatus) IsValid() bool {
	switch s {
	case MeterStatusNotPresent, MeterStatusOK, MeterStatusTimeout,
		MeterStatusDisconnected, MeterStatusNotFound, MeterStatusManipulated,
		MeterStatusExchanged, MeterStatusIncompatible, MeterStatusOutOfRange,
		MeterStatusSubstitute, MeterStatusOtherError, MeterStatusReadError:
		return true
	}
	return false
}

// TimeStatus is the synchronization state of a reading timestamp.
type TimeStatus string

const (
	// TimeStatusUnknown marks an unsynchronized or unknown clock.
	TimeStatusUnknown TimeStatus = "U"
	// TimeStatusInformative marks an informative, non-billing time.
	TimeStatusInformative TimeStatus = "I"
	// TimeStatusSynchronized marks a synchronized clock.
	TimeStatusSynchronized TimeStatus = "S"
	// TimeStatusRelative marks a time relative to an unsynchronized epoch.
	TimeStatusRelative TimeStatus = "R"
)

// IsValid reports whether t is one of the defined status flags.
func (t TimeStatus) IsValid() bool {
	switch t {
	case TimeStatusUnknown, TimeStatusInformative, TimeStatusSynchronized, TimeStatusRelative:
		return true
	}
	return false
}

// CurrentType is the kind of current measured by a reading (RT).
type CurrentType string

const (
	CurrentTypeAC CurrentType = "AC"
	CurrentTypeDC CurrentType = "DC"
)

// IsValid reports whether c is AC or DC.
func (c CurrentType) IsValid() bool {
	return c == CurrentTypeAC || c == CurrentTypeDC
}

// Unit is a measurement unit for reading values (RU) and loss compensation
// resistances (LU).
type Unit string

const (
	UnitKilowattHour Unit = "kWh"
	UnitWattHour     Unit = "Wh"
	UnitMilliohm     Unit = "mOhm"
	UnitOhm          Unit = "Ohm"
	UnitSecond       Unit = "sec"
	UnitMinute       Unit = "min"
	UnitHour         Unit = "h"
)

// IsValid reports whether u is one of the defined units.
func (u Unit) IsValid() bool {
	switch u {
	case UnitKilowattHour, UnitWattHour, UnitMilliohm, UnitOhm,
		UnitSecond, UnitMinute, UnitHour:
		return true
	}
	return false
}

// IsResistance reports whether u is a resistance unit. Loss compensation
// only accepts these.
func (u Unit) IsResistance() bool {
	return u == UnitMilliohm || u == UnitOhm
}

// SignatureEncoding is the transport encoding of the signature data (SE).
type SignatureEncoding string

const (
	SignatureEncodingHex    SignatureEncoding = "hex"
	SignatureEncodingBase64 SignatureEncoding = "base64"
)

// IsValid reports whether e is hex or base64.
func (e SignatureEncoding) IsValid() bool {
	return e == SignatureEncodingHex || e == SignatureEncodingBase64
}

// Charge point identification schemes for CT. Free-form values are also
// accepted on the wire.
const (
	ChargePointEVSEID = "EVSEID"
	ChargePointCBIDC  = "CBIDC"
)
