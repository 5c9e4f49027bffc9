package tables

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// The legacy listing endpoint serializes rows straight out of whatever schema
// the venue database happens to have, so numbers arrive as numbers, quoted
// numbers, empty strings, or garbage. These coercing types absorb all of that;
// anything non-numeric becomes 0.

type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	*f = flexFloat(coerceFloat(data))
	return nil
}

type flexInt int

func (i *flexInt) UnmarshalJSON(data []byte) error {
	*i = flexInt(coerceFloat(data))
	return nil
}

type flexInt64 int64

func (i *flexInt64) UnmarshalJSON(data []byte) error {
	*i = flexInt64(coerceFloat(data))
	return nil
}

// flexString accepts strings and bare numbers (table numbers are sometimes
// stored numerically).
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			*s = ""
			return nil
		}
		*s = flexString(str)
		return nil
	}
	*s = flexString(data)
	return nil
}

func coerceFloat(data []byte) float64 {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return 0
	}
	s := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return 0
		}
		s = strings.TrimSpace(s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
