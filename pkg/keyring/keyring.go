// Package keyring loads YAML trust lists that map charge-point serial
// numbers to the public keys published for them out-of-band.
package keyring

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ocmf-tools/ocmf-go/pkg/ocmf"
	"github.com/ocmf-tools/ocmf-go/pkg/pubkey"
)

// Entry is one trust-list record: the key as published by the operator,
// with an optional declared curve and a free-form comment.
type Entry struct {
	Key     string `yaml:"key"`
	Curve   string `yaml:"curve,omitempty"`
	Comment string `yaml:"comment,omitempty"`
}

// Keyring maps device serial numbers to verification keys.
type Keyring struct {
	entries map[string]Entry
	keys    map[string]*pubkey.PublicKey
}

// Parse reads a keyring from YAML. The document is a mapping from serial
// number to entry. Every key must parse, and a declared curve must match
// the curve of the key it annotates.
func Parse(data []byte) (*Keyring, error) {
	var entries map[string]Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, ocmf.Wrap(ocmf.KindFormat, err, "invalid keyring YAML")
	}

	k := &Keyring{
		entries: make(map[string]Entry, len(entries)),
		keys:    make(map[string]*pubkey.PublicKey, len(entries)),
	}
	for serial, entry := range entries {
		if serial == "" {
			return nil, ocmf.Errorf(ocmf.KindValidation, "keyring entry with empty serial")
		}
		if entry.Key == "" {
			return nil, ocmf.Errorf(ocmf.KindValidation, "keyring entry %q: key is required", serial)
		}
		key, err := pubkey.Parse(entry.Key)
		if err != nil {
			return nil, ocmf.Wrap(ocmf.KindPublicKey, err, "keyring entry %q", serial)
		}
		if entry.Curve != "" {
			curve, err := pubkey.ParseCurve(entry.Curve)
			if err != nil {
				return nil, ocmf.Wrap(ocmf.KindValidation, err, "keyring entry %q", serial)
			}
			if curve != key.Curve() {
				return nil, ocmf.Errorf(ocmf.KindValidation,
					"keyring entry %q: declared curve %s does not match key curve %s",
					serial, curve, key.Curve())
			}
		}
		k.entries[serial] = entry
		k.keys[serial] = key
	}
	return k, nil
}

// Load reads a keyring file from the filesystem.
func Load(path string) (*Keyring, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// Len returns the number of entries.
func (k *Keyring) Len() int {
	return len(k.entries)
}

// Serials returns all serial numbers in sorted order.
func (k *Keyring) Serials() []string {
	serials := make([]string, 0, len(k.entries))
	for s := range k.entries {
		serials = append(serials, s)
	}
	sort.Strings(serials)
	return serials
}

// Lookup returns the entry stored for a serial number.
func (k *Keyring) Lookup(serial string) (Entry, bool) {
	e, ok := k.entries[serial]
	return e, ok
}

// Key returns the parsed key stored for a serial number.
func (k *Keyring) Key(serial string) (*pubkey.PublicKey, bool) {
	key, ok := k.keys[serial]
	return key, ok
}

// Resolve finds the verification key for a payload's device, trying the
// gateway serial first and the meter serial second.
func (k *Keyring) Resolve(payload *ocmf.Payload) (*pubkey.PublicKey, error) {
	if payload == nil {
		return nil, ocmf.Errorf(ocmf.KindNotFound, "no payload to resolve a key for")
	}
	if payload.GatewaySerial != "" {
		if key, ok := k.keys[payload.GatewaySerial]; ok {
			return key, nil
		}
	}
	if payload.MeterSerial != "" {
		if key, ok := k.keys[payload.MeterSerial]; ok {
			return key, nil
		}
	}
	return nil, ocmf.Errorf(ocmf.KindNotFound, "no key for device serial %q", payload.DeviceSerial())
}
