package store

import "time"

// ISOLayout is the ISO-8601 layout used for all timestamps handed out by the
// store package: UTC with millisecond precision, e.g. 2024-05-01T12:00:00.000Z.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// DateConverter is implemented by provider specific timestamp types that can
// be converted to a time.Time (e.g. *timestamppb.Timestamp).
type DateConverter interface {
	AsTime() time.Time
}

// FormatTime formats t according to ISOLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// FormatTimestamp converts a stored timestamp value into an ISO-8601 string.
//
// Strings are passed through unchanged, provider objects are converted with
// AsTime and native time values are formatted with ISOLayout.
// For nil, empty strings and every other type the second return value is false.
func FormatTimestamp(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case DateConverter:
		return FormatTime(t.AsTime()), true
	case time.Time:
		return FormatTime(t), true
	case *time.Time:
		if t == nil {
			return "", false
		}
		return FormatTime(*t), true
	default:
		return "", false
	}
}

// NormalizeTime turns every timestamp representation that is not a string
// into a UTC time.Time. All other values are returned unchanged.
func NormalizeTime(v any) any {
	switch t := v.(type) {
	case DateConverter:
		return t.AsTime().UTC()
	case time.Time:
		return t.UTC()
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.UTC()
	default:
		return v
	}
}

// NormalizeFields applies NormalizeTime to every top-level field of f.
// The fields are modified in place and returned for convenience.
func NormalizeFields(f Fields) Fields {
	for k, v := range f {
		f[k] = NormalizeTime(v)
	}
	return f
}
