package store

import (
	"encoding/json"
	"strconv"
	"strings"
)

// valueRow adapts a slice of driver or decoded JSON values to schema.Row.
// Values of the wrong kind are converted where the conversion is lossless in
// practice (JSON numbers, integer booleans) and fall back to the zero value.
type valueRow []any

func (r valueRow) IsNull(i int) bool {
	return r[i] == nil
}

func (r valueRow) Int(i int) int64 {
	switch v := r[i].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int16:
		return int64(v)
	case int8:
		return int64(v)
	case uint32:
		return int64(v)
	case float64:
		return int64(v)
	case float32:
		return int64(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		f, _ := v.Float64()
		return int64(f)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		n, _ := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n
	}
	return 0
}

func (r valueRow) Float(i int) float64 {
	switch v := r[i].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f
	case nil:
		return 0
	}
	return float64(r.Int(i))
}

func (r valueRow) Text(i int) string {
	switch v := r[i].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatInt(r.Int(i), 10)
}

func (r valueRow) Bool(i int) bool {
	switch v := r[i].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(v))
		return b
	case nil:
		return false
	}
	return r.Int(i) != 0
}

func (r valueRow) Bytes(i int) []byte {
	switch v := r[i].(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	}
	return nil
}
