package transparency

import (
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ocmf-tools/ocmf-go/pkg/ocmf"
	"github.com/ocmf-tools/ocmf-go/pkg/pubkey"
)

// FormatOCMF is the format attribute value marking OCMF data in a
// transparency container.
const FormatOCMF = "OCMF"

// Entry is one OCMF record extracted from a transparency container,
// together with the metadata its enclosing <value> element carried.
type Entry struct {
	// TransactionID identifies the charging transaction, taken from the
	// <value> element or, when absent there, from its <signedData> child.
	TransactionID string

	// Context is the free-form context attribute of the <value> element,
	// commonly "Transaction.Begin" or "Transaction.End".
	Context string

	// Record is the raw OCMF record text.
	Record string

	// PublicKey is the verification key published alongside the record,
	// empty when the container carries none.
	PublicKey string
}

// Decode parses the entry's record text.
func (e *Entry) Decode() (*ocmf.Record, error) {
	return ocmf.ParseRecord(e.Record)
}

// Key parses the public key published alongside the record.
func (e *Entry) Key() (*pubkey.PublicKey, error) {
	if e.PublicKey == "" {
		return nil, ocmf.Errorf(ocmf.KindNotFound, "transparency entry carries no public key")
	}
	return pubkey.Parse(e.PublicKey)
}

type xmlDocument struct {
	XMLName xml.Name   `xml:"values"`
	Values  []xmlValue `xml:"value"`
}

type xmlValue struct {
	TransactionID string   `xml:"transactionId,attr"`
	Context       string   `xml:"context,attr"`
	SignedData    *xmlData `xml:"signedData"`
	EncodedData   *xmlData `xml:"encodedData"`
	PublicKey     *xmlKey  `xml:"publicKey"`
}

type xmlData struct {
	Format        string `xml:"format,attr"`
	Encoding      string `xml:"encoding,attr"`
	TransactionID string `xml:"transactionId,attr"`
	Text          string `xml:",chardata"`
}

type xmlKey struct {
	Encoding string `xml:"encoding,attr"`
	Text     string `xml:",chardata"`
}

// Parse extracts all OCMF records from a transparency-software XML
// container. Entries keep document order; a record appearing in several
// <value> elements is returned once.
func Parse(r io.Reader) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read transparency XML: %w", err)
	}
	return ParseBytes(data)
}

// ParseFile parses a transparency XML file from the filesystem.
func ParseFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes parses a transparency XML document.
func ParseBytes(data []byte) ([]Entry, error) {
	var doc xmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, ocmf.Wrap(ocmf.KindFormat, err, "invalid transparency XML")
	}
	entries := extract(&doc)
	if len(entries) == 0 {
		return nil, ocmf.Errorf(ocmf.KindNotFound, "transparency XML contains no OCMF records")
	}
	return entries, nil
}

// extract walks the container in three passes: signedData elements
// declaring the OCMF format, hex-encoded encodedData elements whose
// decoded text is an OCMF record, and finally any signedData whose text
// starts with the OCMF tag regardless of its format attribute.
func extract(doc *xmlDocument) []Entry {
	var entries []Entry
	seen := make(map[string]bool)

	add := func(v *xmlValue, record string) {
		if record == "" || seen[record] {
			return
		}
		seen[record] = true
		entries = append(entries, Entry{
			TransactionID: transactionID(v),
			Context:       v.Context,
			Record:        record,
			PublicKey:     keyText(v),
		})
	}

	for i := range doc.Values {
		v := &doc.Values[i]
		if v.SignedData != nil && v.SignedData.Format == FormatOCMF {
			add(v, strings.TrimSpace(v.SignedData.Text))
		}
	}

	for i := range doc.Values {
		v := &doc.Values[i]
		ed := v.EncodedData
		if ed == nil || ed.Format != FormatOCMF || !strings.EqualFold(ed.Encoding, "hex") {
			continue
		}
		raw, err := hex.DecodeString(strings.TrimSpace(ed.Text))
		if err != nil || !utf8.Valid(raw) {
			continue
		}
		text := strings.TrimSpace(string(raw))
		if strings.HasPrefix(text, ocmf.FormatTag+"|") {
			add(v, text)
		}
	}

	for i := range doc.Values {
		v := &doc.Values[i]
		if v.SignedData == nil {
			continue
		}
		if text := strings.TrimSpace(v.SignedData.Text); strings.HasPrefix(text, ocmf.FormatTag+"|") {
			add(v, text)
		}
	}

	return entries
}

func transactionID(v *xmlValue) string {
	if v.TransactionID != "" {
		return v.TransactionID
	}
	if v.SignedData != nil {
		return v.SignedData.TransactionID
	}
	return ""
}

func keyText(v *xmlValue) string {
	if v.PublicKey == nil {
		return ""
	}
	return strings.TrimSpace(v.PublicKey.Text)
}
