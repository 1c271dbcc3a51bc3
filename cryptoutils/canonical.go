package cryptoutils

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CanonicalJSON encodes v into a deterministic JSON byte sequence. Object
// keys are sorted lexicographically at every nesting level and no
// insignificant whitespace is emitted, so two values with identical fields
// produce identical bytes regardless of construction order. This determinism
// is the load-bearing invariant for signature verification: the signer and
// verifier must arrive at the same bytes for the same payload.
//
// Re-encoding a parsed canonical document is idempotent: numbers are carried
// through as their original text and HTML escaping is disabled so the output
// does not depend on encoder defaults changing between passes.
func CanonicalJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("could not marshal value: %w", err)
	}

	// Round-trip through generic maps: encoding/json sorts map keys, which
	// yields the canonical key order independent of struct field order.
	var tree any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("could not normalize value: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tree); err != nil {
		return nil, fmt.Errorf("could not encode canonical form: %w", err)
	}

	// Encoder appends a trailing newline; the canonical form excludes it.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
