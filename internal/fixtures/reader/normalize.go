package reader

import (
	"fmt"
	"math"

	"github.com/vvka-141/dbseed/pkg/dbseed"
)

// unwrapNested returns the value under "fixtures" when v is a mapping that has one.
func unwrapNested(v any) any {
	if m, ok := asMap(v); ok {
		if inner, exists := m[dbseed.NestedFixturesKey]; exists {
			return inner
		}
	}
	return v
}

// toFixtures converts a parsed document into fixture records.
// An empty document yields no fixtures.
func toFixtures(v any) ([]dbseed.Fixture, error) {
	if v == nil {
		return []dbseed.Fixture{}, nil
	}

	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list of fixtures, got %s", describe(v))
	}

	fixtures := make([]dbseed.Fixture, 0, len(items))
	for i, item := range items {
		f, err := toFixture(item)
		if err != nil {
			return nil, fmt.Errorf("fixture %d: %w", i, err)
		}
		fixtures = append(fixtures, f)
	}
	return fixtures, nil
}

func toFixture(item any) (dbseed.Fixture, error) {
	m, ok := asMap(item)
	if !ok {
		return dbseed.Fixture{}, fmt.Errorf("expected a mapping with table and data, got %s", describe(item))
	}

	table, ok := m["table"].(string)
	if !ok || table == "" {
		return dbseed.Fixture{}, fmt.Errorf("table must be a non-empty string")
	}

	data := map[string]any{}
	if raw, exists := m["data"]; exists && raw != nil {
		row, ok := asMap(raw)
		if !ok {
			return dbseed.Fixture{}, fmt.Errorf("data for table %s must be a mapping, got %s", table, describe(raw))
		}
		for column, value := range row {
			data[column] = normalizeValue(value)
		}
	}

	return dbseed.Fixture{Table: table, Data: data}, nil
}

// asMap accepts both map shapes decoders produce. yaml.v3 falls back to
// map[interface{}]interface{} when a mapping has non-string keys.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}

// normalizeValue gives every format the same scalar types. Integral numbers
// become int64 whether the decoder produced int (YAML) or an integral float.
// A tengo char arrives as a rune and is inserted as a one-character string.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case int:
		return int64(val)
	case rune:
		return string(val)
	case float64:
		if val == math.Trunc(val) && val >= math.MinInt64 && val < math.MaxInt64 {
			return int64(val)
		}
		return val
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	case map[string]any, map[any]any:
		m, _ := asMap(val)
		out := make(map[string]any, len(m))
		for k, item := range m {
			out[k] = normalizeValue(item)
		}
		return out
	}
	return v
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case int, int64, uint64, float64:
		return "a number"
	case []any:
		return "a list"
	}
	if _, ok := asMap(v); ok {
		return "a mapping"
	}
	return fmt.Sprintf("%T", v)
}
