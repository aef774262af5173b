package ocmf

import (
	"encoding/base64"
	"encoding/hex"
	"testing"
)

func TestParseSignatureDefaults(t *testing.T) {
	sig, err := ParseSignature([]byte(`{"SD":"abcd1234"}`))
	if err != nil {
		t.Fatalf("ParseSignature() error = %v", err)
	}
	if sig.Algorithm != "ECDSA-secp256r1-SHA256" {
		t.Errorf("Algorithm = %q, want default", sig.Algorithm)
	}
	if sig.Encoding != SignatureEncodingHex {
		t.Errorf("Encoding = %q, want hex", sig.Encoding)
	}
	if sig.MimeType != "application/x-der" {
		t.Errorf("MimeType = %q, want default", sig.MimeType)
	}
	if sig.Data != "abcd1234" {
		t.Errorf("Data = %q, want %q", sig.Data, "abcd1234")
	}
}

func TestParseSignatureExplicitFields(t *testing.T) {
	raw := `{"SA":"ECDSA-secp384r1-SHA256","SE":"base64","SM":"application/x-der","SD":"q83v","PK":"3059...","KT":"ECDSA-secp384r1"}`
	sig, err := ParseSignature([]byte(raw))
	if err != nil {
		t.Fatalf("ParseSignature() error = %v", err)
	}
	if sig.Algorithm != "ECDSA-secp384r1-SHA256" {
		t.Errorf("Algorithm = %q", sig.Algorithm)
	}
	if sig.Encoding != SignatureEncodingBase64 {
		t.Errorf("Encoding = %q, want base64", sig.Encoding)
	}
	if sig.PublicKey != "3059..." {
		t.Errorf("PublicKey = %q", sig.PublicKey)
	}
	if sig.KeyType != "ECDSA-secp384r1" {
		t.Errorf("KeyType = %q", sig.KeyType)
	}
}

func TestParseSignatureErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"MissingSD", `{"SA":"ECDSA-secp256r1-SHA256"}`},
		{"EmptySD", `{"SD":""}`},
		{"UnknownEncoding", `{"SE":"utf8","SD":"abcd"}`},
		{"BadJSON", `{"SD":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSignature([]byte(tt.json)); err == nil {
				t.Error("ParseSignature() succeeded, want error")
			}
		})
	}
}

func TestSignatureDecodedData(t *testing.T) {
	payload := []byte{0x30, 0x45, 0x02, 0x20}

	t.Run("Hex", func(t *testing.T) {
		sig := &Signature{Encoding: SignatureEncodingHex, Data: hex.EncodeToString(payload)}
		raw, err := sig.DecodedData()
		if err != nil {
			t.Fatalf("DecodedData() error = %v", err)
		}
		if string(raw) != string(payload) {
			t.Errorf("DecodedData() = %x, want %x", raw, payload)
		}
	})

	t.Run("Base64", func(t *testing.T) {
		sig := &Signature{Encoding: SignatureEncodingBase64, Data: base64.StdEncoding.EncodeToString(payload)}
		raw, err := sig.DecodedData()
		if err != nil {
			t.Fatalf("DecodedData() error = %v", err)
		}
		if string(raw) != string(payload) {
			t.Errorf("DecodedData() = %x, want %x", raw, payload)
		}
	})

	t.Run("InvalidHex", func(t *testing.T) {
		sig := &Signature{Encoding: SignatureEncodingHex, Data: "zz"}
		if _, err := sig.DecodedData(); err == nil {
			t.Error("DecodedData() succeeded, want error")
		} else if KindOf(err) != KindEncoding {
			t.Errorf("error kind = %v, want encoding error", KindOf(err))
		}
	})

	t.Run("InvalidBase64", func(t *testing.T) {
		sig := &Signature{Encoding: SignatureEncodingBase64, Data: "!!!"}
		if _, err := sig.DecodedData(); err == nil {
			t.Error("DecodedData() succeeded, want error")
		}
	})
}
