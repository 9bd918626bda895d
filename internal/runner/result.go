package runner

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/ChamsBouzaiene/insightd/internal/dataset"
)

// ResultKind tags the shape of a fragment's result value. The tag is
// decided once, when the result slot is inspected, and selects exactly
// one serialization rule.
type ResultKind int

const (
	ResultAbsent ResultKind = iota
	ResultTable
	ResultMapping
	ResultSequence
	ResultScalar
)

// classify assigns a ResultKind to the value left in the result slot.
func classify(v any) ResultKind {
	if v == nil {
		return ResultAbsent
	}
	if _, ok := v.(*dataset.Table); ok {
		return ResultTable
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map:
		return ResultMapping
	case reflect.Slice, reflect.Array:
		return ResultSequence
	default:
		return ResultScalar
	}
}

const executedOKMarker = "Code executed successfully"

// serialize turns the result slot (and any captured output) into the
// canonical text returned to the calling pipeline.
func serialize(v any, capturedOutput string) string {
	switch classify(v) {
	case ResultTable:
		return marshalIndent(v.(*dataset.Table).Rows())
	case ResultMapping, ResultSequence:
		return marshalIndent(v)
	case ResultScalar:
		return formatScalar(v)
	default: // ResultAbsent
		if capturedOutput != "" {
			return capturedOutput
		}
		return executedOKMarker
	}
}

func marshalIndent(v any) string {
	data, err := json.MarshalIndent(normalize(v), "", "  ")
	if err != nil {
		// normalize should have removed everything unmarshalable, but a
		// fragment can still construct exotic values.
		return fmt.Sprintf("Error serializing result: %v", err)
	}
	return string(data)
}

// normalize walks a value and replaces anything JSON cannot represent
// natively (dates, NaN/Inf, channels, funcs...) with its string form.
func normalize(v any) any {
	if v == nil {
		return nil
	}

	switch val := v.(type) {
	case *dataset.Table:
		return normalize(val.Rows())
	case time.Time:
		return val.Format(time.RFC3339)
	case json.Number, string, bool:
		return val
	case float64:
		return normalizeFloat(val)
	case float32:
		return normalizeFloat(float64(val))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return val
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprintf("%v", iter.Key().Interface())] = normalize(iter.Value().Interface())
		}
		return out
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())
	case reflect.Struct:
		// Round-trip through encoding/json when possible, else stringify.
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		var decoded any
		if err := json.Unmarshal(data, &decoded); err != nil {
			return fmt.Sprintf("%v", v)
		}
		return decoded
	case reflect.Chan, reflect.Func, reflect.Complex64, reflect.Complex128:
		return fmt.Sprintf("%v", v)
	default:
		return v
	}
}

func normalizeFloat(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return f
}

func formatScalar(v any) string {
	switch val := v.(type) {
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}
