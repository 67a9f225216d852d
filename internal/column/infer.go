package column

// DefaultSampleSize is how many leading non-null values inference inspects.
const DefaultSampleSize = 10

// InferValues picks a dtype for a raw value sequence. The decision is
// deterministic, made from the first sampleSize non-null values, and cascades:
// all dates, then all booleans, then all strings, then all integral numbers,
// then anything numeric, with String as the fallback. An empty or all-null
// input infers String.
func InferValues(values []Value, sampleSize int) DType {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}

	sample := make([]Value, 0, sampleSize)
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		sample = append(sample, v)
		if len(sample) >= sampleSize {
			break
		}
	}
	if len(sample) == 0 {
		return String
	}

	allDates := true
	allBools := true
	allStrings := true
	for _, v := range sample {
		k, _ := v.Kind()
		if k != Date {
			allDates = false
		}
		if k != Boolean {
			allBools = false
		}
		if k != String {
			allStrings = false
		}
	}
	switch {
	case allDates:
		return Date
	case allBools:
		return Boolean
	case allStrings:
		return String
	}

	allIntegral := true
	allNumeric := true
	for _, v := range sample {
		if _, ok := AsInt64(v); !ok {
			allIntegral = false
		}
		if _, ok := AsFloat64(v); !ok {
			allNumeric = false
			break
		}
	}
	switch {
	case allIntegral && allNumeric:
		return Integer
	case allNumeric:
		return Float
	default:
		return String
	}
}

// Infer coerces raw values and infers their dtype with the default sample
// size.
func Infer(raw []any) DType {
	return InferValues(CoerceSlice(raw), DefaultSampleSize)
}
