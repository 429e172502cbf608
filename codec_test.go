package persist_test

import (
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	persist "github.com/goliatone/go-persist"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	snapshot := map[string]any{
		"name":  "cart",
		"count": 3,
		"tags":  []any{"a", "b"},
		"nested": map[string]any{
			"enabled": true,
		},
		"missing": nil,
	}

	raw, err := persist.Encode(snapshot)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := persist.Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	m, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %T", decoded)
	}
	if m["name"] != "cart" {
		t.Fatalf("expected name=cart, got %v", m["name"])
	}
	if m["count"] != json.Number("3") {
		t.Fatalf("expected count=3, got %#v", m["count"])
	}
	if value, present := m["missing"]; !present || value != nil {
		t.Fatalf("expected nil field to stay present as null, got present=%v value=%v", present, value)
	}
	nested, ok := m["nested"].(map[string]any)
	if !ok || nested["enabled"] != true {
		t.Fatalf("expected nested.enabled=true, got %#v", m["nested"])
	}
	tags, ok := m["tags"].([]any)
	if !ok || len(tags) != 2 || tags[0] != "a" {
		t.Fatalf("expected tags round-trip, got %#v", m["tags"])
	}
}

func TestEncodeBigIntNarrowsToDecimalString(t *testing.T) {
	balance, ok := new(big.Int).SetString("12345678901234567890123456789", 10)
	if !ok {
		t.Fatal("bad big int literal")
	}

	raw, err := persist.Encode(map[string]any{"balance": balance})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := persist.Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	m := decoded.(map[string]any)
	// One-way narrowing: decode yields the decimal string, not a big.Int.
	if m["balance"] != "12345678901234567890123456789" {
		t.Fatalf("expected decimal string, got %#v", m["balance"])
	}
}

func TestEncodeTopLevelDateRoundTrips(t *testing.T) {
	when := time.Date(2025, 6, 14, 10, 30, 0, 123456789, time.UTC)

	raw, err := persist.Encode(map[string]any{"updatedAt": when})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(raw, "__date__") {
		t.Fatalf("expected date marker in %q", raw)
	}
	decoded, err := persist.Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	m := decoded.(map[string]any)
	got, ok := m["updatedAt"].(time.Time)
	if !ok {
		t.Fatalf("expected time.Time, got %T", m["updatedAt"])
	}
	if !got.Equal(when) {
		t.Fatalf("expected %v, got %v", when, got)
	}
}

func TestDecodeDoesNotRehydrateNestedDates(t *testing.T) {
	when := time.Date(2025, 6, 14, 10, 30, 0, 0, time.UTC)

	raw, err := persist.Encode(map[string]any{
		"meta": map[string]any{"createdAt": when},
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := persist.Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	meta := decoded.(map[string]any)["meta"].(map[string]any)
	marker, ok := meta["createdAt"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested date to stay a marker map, got %T", meta["createdAt"])
	}
	if _, ok := marker["__date__"].(string); !ok {
		t.Fatalf("expected __date__ marker, got %#v", marker)
	}
}

func TestEncodeSelfReferenceTerminates(t *testing.T) {
	s := map[string]any{"name": "loop"}
	s["self"] = s

	raw, err := persist.Encode(s)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := persist.Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	m := decoded.(map[string]any)
	if m["self"] != persist.CircularMarker {
		t.Fatalf("expected %q, got %#v", persist.CircularMarker, m["self"])
	}
	if m["name"] != "loop" {
		t.Fatalf("expected sibling fields intact, got %#v", m["name"])
	}
}

func TestEncodeRepeatedReferenceCollapses(t *testing.T) {
	inner := map[string]any{"v": 1}

	raw, err := persist.Encode(map[string]any{"items": []any{inner, inner}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := persist.Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	items := decoded.(map[string]any)["items"].([]any)
	if _, ok := items[0].(map[string]any); !ok {
		t.Fatalf("expected first occurrence serialized, got %#v", items[0])
	}
	if items[1] != persist.CircularMarker {
		t.Fatalf("expected second occurrence collapsed, got %#v", items[1])
	}
}

func TestEncodeDistinctEmptySlicesStayIndependent(t *testing.T) {
	raw, err := persist.Encode(map[string]any{"a": []any{}, "b": []any{}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := persist.Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	m := decoded.(map[string]any)
	a, ok := m["a"].([]any)
	if !ok || len(a) != 0 {
		t.Fatalf("expected a to stay an empty list, got %#v", m["a"])
	}
	b, ok := m["b"].([]any)
	if !ok || len(b) != 0 {
		t.Fatalf("expected b to stay an empty list, got %#v", m["b"])
	}
}

func TestEncodeEmptyTailsOfSharedArray(t *testing.T) {
	backing := []any{"x", "y"}

	raw, err := persist.Encode(map[string]any{
		"first":  backing[2:],
		"second": backing[2:],
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := persist.Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	m := decoded.(map[string]any)
	for _, key := range []string{"first", "second"} {
		tail, ok := m[key].([]any)
		if !ok || len(tail) != 0 {
			t.Fatalf("expected %s to stay an empty list, got %#v", key, m[key])
		}
	}
}

func TestEncodeDropsFunctionFields(t *testing.T) {
	raw, err := persist.Encode(map[string]any{
		"ok": "kept",
		"fn": func() {},
		"in": []any{func() {}},
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := persist.Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	m := decoded.(map[string]any)
	if m["ok"] != "kept" {
		t.Fatalf("expected ok field kept, got %#v", m["ok"])
	}
	if _, present := m["fn"]; present {
		t.Fatalf("expected function field dropped, got %#v", m["fn"])
	}
	in := m["in"].([]any)
	if len(in) != 1 || in[0] != nil {
		t.Fatalf("expected function array element nulled, got %#v", in)
	}
}

func TestEncodeTopLevelFunctionFails(t *testing.T) {
	_, err := persist.Encode(func() {})
	if err == nil {
		t.Fatal("expected error for top-level function")
	}
	var codecErr *persist.CodecError
	if !errors.As(err, &codecErr) || codecErr.Op != "encode" {
		t.Fatalf("expected encode CodecError, got %v", err)
	}
}

func TestDecodeEmptyReturnsNil(t *testing.T) {
	value, err := persist.Decode("")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if value != nil {
		t.Fatalf("expected nil, got %#v", value)
	}
}

func TestDecodeCorruptReturnsError(t *testing.T) {
	value, err := persist.Decode("{definitely not json")
	if err == nil {
		t.Fatal("expected error for corrupt input")
	}
	if value != nil {
		t.Fatalf("expected nil value, got %#v", value)
	}
	var codecErr *persist.CodecError
	if !errors.As(err, &codecErr) || codecErr.Op != "decode" {
		t.Fatalf("expected decode CodecError, got %v", err)
	}
}

func TestEncodeStructsUseJSONTags(t *testing.T) {
	type profile struct {
		DisplayName string `json:"displayName"`
		Internal    string `json:"-"`
		Plain       int
	}

	raw, err := persist.Encode(map[string]any{"profile": profile{DisplayName: "ada", Internal: "x", Plain: 7}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := persist.Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	p := decoded.(map[string]any)["profile"].(map[string]any)
	if p["displayName"] != "ada" {
		t.Fatalf("expected tag name used, got %#v", p)
	}
	if _, present := p["Internal"]; present {
		t.Fatalf("expected dash-tagged field dropped, got %#v", p)
	}
	if p["Plain"] != json.Number("7") {
		t.Fatalf("expected untagged field under its Go name, got %#v", p)
	}
}
