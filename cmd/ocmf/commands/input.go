package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ocmf-tools/ocmf-go/pkg/keyring"
	"github.com/ocmf-tools/ocmf-go/pkg/ocmf"
	"github.com/ocmf-tools/ocmf-go/pkg/pubkey"
	"github.com/ocmf-tools/ocmf-go/pkg/transparency"
)

// recordInput is one record to process together with where it came from.
type recordInput struct {
	Record *ocmf.Record

	// Source describes the origin for messages, "argument" or a file path.
	Source string

	// XMLKey is the public key published next to the record in a
	// transparency container, empty otherwise.
	XMLKey string

	// TransactionID and Context carry over the container attributes.
	TransactionID string
	Context       string
}

func (in recordInput) describe() string {
	if in.TransactionID != "" {
		return fmt.Sprintf("%s [transaction %s]", in.Source, in.TransactionID)
	}
	return in.Source
}

// loadRecords resolves a command line input into records. A string
// carrying the OCMF tag (or hex-decoding to one) is parsed directly; an
// existing file is read as a transparency XML container, taking the
// first record unless all is set.
func loadRecords(input string, all bool) ([]recordInput, error) {
	if !strings.HasPrefix(input, ocmf.FormatTag+"|") {
		if info, err := os.Stat(input); err == nil && info.Mode().IsRegular() {
			return loadContainer(input, all)
		}
		// A path that does not exist should not be parsed as record
		// text; the resulting format error would only mislead.
		if strings.ContainsAny(input, `/\`) || strings.HasSuffix(input, ".xml") {
			return nil, fmt.Errorf("file not found: %s", input)
		}
	}

	rec, err := ocmf.ParseRecord(input)
	if err != nil {
		return nil, err
	}
	return []recordInput{{Record: rec, Source: "argument"}}, nil
}

func loadContainer(path string, all bool) ([]recordInput, error) {
	entries, err := transparency.ParseFile(path)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("found %d record(s) in %s", len(entries), path)

	if !all {
		entries = entries[:1]
	}

	inputs := make([]recordInput, 0, len(entries))
	for _, entry := range entries {
		rec, err := entry.Decode()
		if err != nil {
			if entry.TransactionID != "" {
				return nil, fmt.Errorf("transaction %s in %s: %w", entry.TransactionID, path, err)
			}
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		inputs = append(inputs, recordInput{
			Record:        rec,
			Source:        path,
			XMLKey:        entry.PublicKey,
			TransactionID: entry.TransactionID,
			Context:       entry.Context,
		})
	}
	return inputs, nil
}

// resolveKey picks the verification key for a record. An explicit --key
// wins, then the keyring by device serial, then the key published in
// the transparency container. A nil key lets the verifier fall back to
// the key embedded in the record itself.
func resolveKey(keyText string, ring *keyring.Keyring, in recordInput) (*pubkey.PublicKey, string, error) {
	if keyText != "" {
		key, err := pubkey.Parse(keyText)
		if err != nil {
			return nil, "", fmt.Errorf("invalid --key: %w", err)
		}
		return key, "flag", nil
	}
	if ring != nil {
		key, err := ring.Resolve(in.Record.Payload)
		if err == nil {
			return key, "keyring", nil
		}
		if !ocmf.IsKind(err, ocmf.KindNotFound) {
			return nil, "", err
		}
	}
	if in.XMLKey != "" {
		key, err := pubkey.Parse(in.XMLKey)
		if err != nil {
			return nil, "", fmt.Errorf("invalid public key in container: %w", err)
		}
		return key, "container", nil
	}
	return nil, "record", nil
}
