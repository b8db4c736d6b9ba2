// Package numfmt normalizes raw numeric tokens from payroll PDF lines into
// canonical cell values. It understands the Brazilian convention (thousands
// separator ".", decimal separator ",") and the hour:minute token format
// used by overtime columns.
package numfmt

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var hourPattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// CellValue is a normalized value destined for one spreadsheet cell. Hour
// values keep their textual form ("06,34" means 6 hours 34 minutes) because
// they are durations, not currency; everything else is an arithmetic decimal.
type CellValue struct {
	Number  decimal.Decimal
	Minutes int // total minutes, hour values only
	IsHour  bool
}

// Zero returns an empty decimal value.
func Zero() CellValue {
	return CellValue{Number: decimal.Zero}
}

// IsZero reports whether the value is numerically zero or empty.
func (v CellValue) IsZero() bool {
	if v.IsHour {
		return v.Minutes == 0
	}
	return v.Number.IsZero()
}

// Add combines two values. Hour values use minute arithmetic so that
// "06,40" + "00,30" carries into "07,10"; decimal values add exactly.
// A mixed pair falls back to decimal addition on the numeric forms.
func (v CellValue) Add(o CellValue) CellValue {
	if v.IsHour && o.IsHour {
		return hourFromMinutes(v.Minutes + o.Minutes)
	}
	return CellValue{Number: v.Number.Add(o.Number)}
}

// String renders the value for reports: "06,34" for hours, the plain
// decimal form otherwise.
func (v CellValue) String() string {
	if v.IsHour {
		return fmt.Sprintf("%02d,%02d", v.Minutes/60, v.Minutes%60)
	}
	return v.Number.String()
}

// SheetValue returns the value to hand to the spreadsheet writer: hour
// columns receive the comma-joined string, numeric columns a float.
func (v CellValue) SheetValue() any {
	if v.IsHour {
		return v.String()
	}
	return v.Number.InexactFloat64()
}

func hourFromMinutes(total int) CellValue {
	v := CellValue{Minutes: total, IsHour: true}
	v.Number = decimal.NewFromInt(int64(total / 60)).
		Add(decimal.NewFromInt(int64(total % 60)).Div(decimal.NewFromInt(100)))
	return v
}

// IsNumericToken reports whether a whitespace-delimited token looks numeric:
// a plain decimal in Brazilian format, a bare integer, or an hour token.
// Looking numeric does not guarantee the token normalizes; malformed tokens
// such as "00,30,030" pass this check and fail Normalize.
func IsNumericToken(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if (r < '0' || r > '9') && r != '.' && r != ',' && r != ':' {
			return false
		}
	}
	if r := token[0]; r < '0' || r > '9' {
		return false
	}
	return true
}

// Normalize converts one raw token into a CellValue. hourColumn selects the
// hour:minute interpretation; it only applies when the token actually matches
// the hour pattern, otherwise the decimal interpretation is attempted.
// The boolean result is false when the token fits neither interpretation;
// callers treat that as an absent value, never as an error.
func Normalize(token string, hourColumn bool) (CellValue, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return CellValue{}, false
	}

	if hourPattern.MatchString(token) {
		if !hourColumn {
			// Hour tokens are durations; a currency column cannot hold one.
			return CellValue{}, false
		}
		parts := strings.SplitN(token, ":", 2)
		hours, _ := decimal.NewFromString(parts[0])
		minutes, _ := decimal.NewFromString(parts[1])
		return hourFromMinutes(int(hours.IntPart())*60 + int(minutes.IntPart())), true
	}

	d, ok := parseBrazilianDecimal(token)
	if !ok {
		return CellValue{}, false
	}
	return CellValue{Number: d}, true
}

// parseBrazilianDecimal interprets "1.203,30" style tokens: dots are
// thousands separators, a single comma is the decimal separator.
func parseBrazilianDecimal(token string) (decimal.Decimal, bool) {
	if strings.Count(token, ",") > 1 {
		return decimal.Zero, false
	}
	cleaned := strings.ReplaceAll(token, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
