package transform

import (
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// DefaultDateFormat is the layout used by DateTransformer without a format option.
const DefaultDateFormat = "2006-01-02"

// DateTransformer formats dates. The "format" option takes a Go time layout.
type DateTransformer struct{}

func (DateTransformer) TargetMappingType() string { return "date" }

func (DateTransformer) Transform(source any, options map[string]any) (any, error) {
	format := DefaultDateFormat
	if f, ok := options["format"].(string); ok && f != "" {
		format = f
	}

	switch v := source.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return v.Format(format), nil
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		return v.Format(format), nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, fmt.Errorf("%w: date %q: %w", ErrUnsupportedValue, v, err)
		}
		return t.Format(format), nil
	default:
		return nil, fmt.Errorf("%w: date from %T", ErrUnsupportedValue, source)
	}
}

// TextCastTransformer casts any value to its string form.
type TextCastTransformer struct{}

func (TextCastTransformer) TargetMappingType() string { return "text" }

func (TextCastTransformer) Transform(source any, _ map[string]any) (any, error) {
	return castString(source), nil
}

// StringCastTransformer is the legacy name of TextCastTransformer. Engines
// dropped the string field type, so it maps to text as well.
type StringCastTransformer struct{}

func (StringCastTransformer) TargetMappingType() string { return "text" }

func (StringCastTransformer) Transform(source any, _ map[string]any) (any, error) {
	return castString(source), nil
}

// CollectionStringCastTransformer casts every element of a slice or array
// to its string form.
type CollectionStringCastTransformer struct{}

func (CollectionStringCastTransformer) TargetMappingType() string { return "text" }

func (CollectionStringCastTransformer) Transform(source any, _ map[string]any) (any, error) {
	if source == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(source)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: collection from %T", ErrUnsupportedValue, source)
	}
	out := make([]string, rv.Len())
	for i := range out {
		out[i] = castString(rv.Index(i).Interface())
	}
	return out, nil
}

func castString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case bool:
		return strconv.FormatBool(s)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
