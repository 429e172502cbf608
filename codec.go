package persist

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strings"
	"time"
)

// CircularMarker replaces any object encountered a second time during a
// single Encode call. Cyclic edges are lossy: they collapse to this literal
// instead of recursing or failing.
const CircularMarker = "[Circular]"

// dateField wraps encoded date values so Decode can tell them apart from
// plain maps.
const dateField = "__date__"

var (
	timeType   = reflect.TypeOf(time.Time{})
	bigIntType = reflect.TypeOf(big.Int{})
)

// Encode serializes value into a storage-safe JSON string. Nil values are
// preserved as JSON null (field presence is kept, not omitted), big integers
// narrow to their decimal string representation (one-way; Decode does not
// reconstruct them), dates become {"__date__": <RFC3339>} markers, and
// repeat encounters of the same object within one call collapse to
// CircularMarker. Function and channel values are dropped from objects and
// nulled inside arrays; only a fundamentally non-serializable top-level
// value returns an error.
func Encode(value any) (string, error) {
	normalized, ok := normalizeValue(reflect.ValueOf(value), map[uintptr]struct{}{})
	if !ok {
		return "", &CodecError{Op: "encode", Err: fmt.Errorf("unsupported value of type %T", value)}
	}
	raw, err := json.Marshal(normalized)
	if err != nil {
		return "", &CodecError{Op: "encode", Err: err}
	}
	return string(raw), nil
}

// Decode parses a stored record back into a value. Empty input returns nil
// without attempting to parse. Top-level fields shaped as a date marker are
// rehydrated into time.Time; markers nested deeper than one level stay as
// plain maps (a documented limitation; consumers of nested dates must
// rehydrate themselves). Numbers decode as json.Number to avoid float64
// precision loss on large integers.
func Decode(raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, &CodecError{Op: "decode", Err: err}
	}

	if m, ok := value.(map[string]any); ok {
		if t, ok := decodeDate(m); ok {
			return t, nil
		}
		for key, field := range m {
			if marker, ok := field.(map[string]any); ok {
				if t, ok := decodeDate(marker); ok {
					m[key] = t
				}
			}
		}
	}
	return value, nil
}

// normalizeValue rewrites v into a JSON-marshalable tree. The seen set
// tracks object identities already serialized during this call; it is never
// pruned, so any second encounter, cyclic or not, yields CircularMarker.
// The second return value is false for values that have no JSON
// representation at all (functions, channels); containers drop those.
func normalizeValue(v reflect.Value, seen map[uintptr]struct{}) (any, bool) {
	if !v.IsValid() {
		return nil, true
	}

	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, true
		}
		return normalizeValue(v.Elem(), seen)
	}

	switch v.Type() {
	case timeType:
		return dateMarker(v.Interface().(time.Time)), true
	case bigIntType:
		b := v.Interface().(big.Int)
		return b.String(), true
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return nil, true
		}
		id := v.Pointer()
		if _, dup := seen[id]; dup {
			return CircularMarker, true
		}
		seen[id] = struct{}{}
		return normalizeValue(v.Elem(), seen)
	case reflect.Map:
		if v.IsNil() {
			return nil, true
		}
		id := v.Pointer()
		if _, dup := seen[id]; dup {
			return CircularMarker, true
		}
		seen[id] = struct{}{}
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			normalized, ok := normalizeValue(iter.Value(), seen)
			if !ok {
				continue
			}
			out[mapKeyString(iter.Key())] = normalized
		}
		return out, true
	case reflect.Slice:
		if v.IsNil() {
			return nil, true
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return v.Interface(), true
		}
		// Zero-length slices all share one backing address, so tracking them
		// would collide distinct empty slices; they cannot form a cycle.
		if v.Len() > 0 {
			id := v.Pointer()
			if _, dup := seen[id]; dup {
				return CircularMarker, true
			}
			seen[id] = struct{}{}
		}
		return normalizeElements(v, seen), true
	case reflect.Array:
		return normalizeElements(v, seen), true
	case reflect.Struct:
		out := make(map[string]any, v.NumField())
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			name, skip := jsonFieldName(field)
			if skip {
				continue
			}
			normalized, ok := normalizeValue(v.Field(i), seen)
			if !ok {
				continue
			}
			out[name] = normalized
		}
		return out, true
	case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128:
		return nil, false
	default:
		return v.Interface(), true
	}
}

func normalizeElements(v reflect.Value, seen map[uintptr]struct{}) []any {
	out := make([]any, v.Len())
	for i := 0; i < v.Len(); i++ {
		normalized, ok := normalizeValue(v.Index(i), seen)
		if !ok {
			normalized = nil
		}
		out[i] = normalized
	}
	return out
}

func dateMarker(t time.Time) map[string]any {
	return map[string]any{dateField: t.UTC().Format(time.RFC3339Nano)}
}

// decodeDate rehydrates a single-field {"__date__": <string>} marker.
func decodeDate(m map[string]any) (time.Time, bool) {
	if len(m) != 1 {
		return time.Time{}, false
	}
	raw, ok := m[dateField].(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func mapKeyString(key reflect.Value) string {
	if key.Kind() == reflect.String {
		return key.String()
	}
	return fmt.Sprint(key.Interface())
}

func jsonFieldName(field reflect.StructField) (name string, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	name = field.Name
	if tag != "" {
		if idx := strings.IndexByte(tag, ','); idx >= 0 {
			tag = tag[:idx]
		}
		if tag != "" {
			name = tag
		}
	}
	return name, false
}
