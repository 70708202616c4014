package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Day 25569 of the spreadsheet serial calendar is 1970-01-01.
const serialEpochOffset = 25569

var amountCleaner = strings.NewReplacer("¥", "", "￥", "", ",", "", " ", "")

// ParseAmount accepts numbers as-is and cleans currency glyphs and
// thousands separators out of strings. Unparsable input yields 0.
func ParseAmount(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(amountCleaner.Replace(strings.TrimSpace(n)), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate converts spreadsheet date encodings to a time.Time. Numeric
// input is a spreadsheet serial day. String input has slash separators
// normalized first so the common 2024/11/05 13:30:00 export style
// parses; a bare numeric string is treated as a serial. Unparsable
// input is an error and the caller drops the row.
func ParseDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case float64:
		return serialToTime(d), nil
	case int:
		return serialToTime(float64(d)), nil
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(d), "/", "-")
		if serial, err := strconv.ParseFloat(s, 64); err == nil {
			return serialToTime(serial), nil
		}
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unparsable date %q", d)
	}
	return time.Time{}, fmt.Errorf("unsupported date value of type %T", v)
}

func serialToTime(serial float64) time.Time {
	ms := int64(math.Round((serial - serialEpochOffset) * 86400 * 1000))
	return time.UnixMilli(ms)
}
