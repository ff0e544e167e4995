package model

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// RawKind tags the variant held by a RawField.
type RawKind int

const (
	RawMissing RawKind = iota
	RawNumber
	RawText
)

// RawField is a numeric recipe field as a model returned it: a JSON number,
// a string like "10 minutes", or nothing at all.
type RawField struct {
	Kind   RawKind
	Number int64
	Text   string
}

func NumberField(n int64) RawField { return RawField{Kind: RawNumber, Number: n} }

func TextRawField(s string) RawField { return RawField{Kind: RawText, Text: s} }

// UnmarshalJSON never fails on well-formed JSON. Shapes other than number
// and string decode as missing.
func (f *RawField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*f = RawField{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = NumberField(int64(num))
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*f = TextRawField(text)
	}
	return nil
}

var digitRun = regexp.MustCompile(`\d+`)

// Coerce returns the field as a positive int. Text yields its first run of
// digits. Anything missing, unparseable or not positive yields def.
func (f RawField) Coerce(def int) int {
	switch f.Kind {
	case RawNumber:
		if f.Number > 0 && f.Number <= int64(^uint32(0)>>1) {
			return int(f.Number)
		}
	case RawText:
		match := digitRun.FindString(f.Text)
		if match == "" {
			return def
		}
		n, err := strconv.Atoi(match)
		if err == nil && n > 0 {
			return n
		}
	}
	return def
}

// TextField is a free-text recipe field. Models sometimes answer with a
// list, which is joined one item per line.
type TextField struct {
	Value string
	Set   bool
}

func (t *TextField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*t = TextField{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*t = TextField{Value: s, Set: true}
		}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil
		}
		lines := make([]string, 0, len(items))
		for _, item := range items {
			var s string
			if err := json.Unmarshal(item, &s); err == nil {
				lines = append(lines, s)
				continue
			}
			lines = append(lines, string(bytes.TrimSpace(item)))
		}
		*t = TextField{Value: strings.Join(lines, "\n"), Set: true}
	default:
		if data[0] == '-' || (data[0] >= '0' && data[0] <= '9') {
			*t = TextField{Value: string(data), Set: true}
		}
	}
	return nil
}

// Or returns the value, or fallback when the field was absent or blank.
func (t TextField) Or(fallback string) string {
	if !t.Set || strings.TrimSpace(t.Value) == "" {
		return fallback
	}
	return t.Value
}
