package firestore

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"
)

// value é o Value tipado da API REST do Firestore.
type value struct {
	NullValue      *string         `json:"nullValue,omitempty"`
	BooleanValue   *bool           `json:"booleanValue,omitempty"`
	IntegerValue   *string         `json:"integerValue,omitempty"`
	DoubleValue    *float64        `json:"doubleValue,omitempty"`
	TimestampValue *string         `json:"timestampValue,omitempty"`
	StringValue    *string         `json:"stringValue,omitempty"`
	ArrayValue     *arrayValue     `json:"arrayValue,omitempty"`
	MapValue       *mapValue       `json:"mapValue,omitempty"`
	ReferenceValue *string         `json:"referenceValue,omitempty"`
	GeoPointValue  *map[string]any `json:"geoPointValue,omitempty"`
}

type arrayValue struct {
	Values []value `json:"values,omitempty"`
}

type mapValue struct {
	Fields map[string]value `json:"fields,omitempty"`
}

func encodeFields(fields map[string]any) (map[string]value, error) {
	out := make(map[string]value, len(fields))
	for k, v := range fields {
		enc, err := encodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("campo %s: %w", k, err)
		}
		out[k] = enc
	}
	return out, nil
}

func encodeValue(v any) (value, error) {
	switch t := v.(type) {
	case nil:
		null := "NULL_VALUE"
		return value{NullValue: &null}, nil
	case bool:
		return value{BooleanValue: &t}, nil
	case string:
		return value{StringValue: &t}, nil
	case int:
		s := strconv.FormatInt(int64(t), 10)
		return value{IntegerValue: &s}, nil
	case int64:
		s := strconv.FormatInt(t, 10)
		return value{IntegerValue: &s}, nil
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1<<53 {
			s := strconv.FormatInt(int64(t), 10)
			return value{IntegerValue: &s}, nil
		}
		return value{DoubleValue: &t}, nil
	case time.Time:
		s := t.UTC().Format(time.RFC3339Nano)
		return value{TimestampValue: &s}, nil
	case []string:
		arr := arrayValue{Values: make([]value, 0, len(t))}
		for i := range t {
			s := t[i]
			arr.Values = append(arr.Values, value{StringValue: &s})
		}
		return value{ArrayValue: &arr}, nil
	case []any:
		arr := arrayValue{Values: make([]value, 0, len(t))}
		for _, item := range t {
			enc, err := encodeValue(item)
			if err != nil {
				return value{}, err
			}
			arr.Values = append(arr.Values, enc)
		}
		return value{ArrayValue: &arr}, nil
	case map[string]any:
		fields, err := encodeFields(t)
		if err != nil {
			return value{}, err
		}
		return value{MapValue: &mapValue{Fields: fields}}, nil
	default:
		return value{}, fmt.Errorf("tipo não suportado: %T", v)
	}
}

// decodeFields devolve tipos do encoding/json: timestamps viram string
// RFC3339, inteiros viram int64.
func decodeFields(fields map[string]value) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = decodeValue(v)
	}
	return out
}

func decodeValue(v value) any {
	switch {
	case v.StringValue != nil:
		return *v.StringValue
	case v.BooleanValue != nil:
		return *v.BooleanValue
	case v.IntegerValue != nil:
		n, err := strconv.ParseInt(*v.IntegerValue, 10, 64)
		if err != nil {
			return *v.IntegerValue
		}
		return n
	case v.DoubleValue != nil:
		return *v.DoubleValue
	case v.TimestampValue != nil:
		if t, err := time.Parse(time.RFC3339Nano, *v.TimestampValue); err == nil {
			return t.UTC().Format(time.RFC3339Nano)
		}
		return *v.TimestampValue
	case v.ArrayValue != nil:
		out := make([]any, 0, len(v.ArrayValue.Values))
		for _, item := range v.ArrayValue.Values {
			out = append(out, decodeValue(item))
		}
		return out
	case v.MapValue != nil:
		return decodeFields(v.MapValue.Fields)
	case v.ReferenceValue != nil:
		return *v.ReferenceValue
	default:
		return nil
	}
}

func sortedKeys(fields map[string]any) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
