// Package period extracts the reference month/year of a payroll page and
// matches it against the destination spreadsheet's period column, whose
// cells may carry textual labels, formatted dates or raw Excel serials.
package period

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Key identifies one payroll competence period.
type Key struct {
	Month int // 1..12
	Year  int
}

// Valid reports whether the key holds a plausible month and year.
func (k Key) Valid() bool {
	return k.Month >= 1 && k.Month <= 12 && k.Year > 0
}

// String renders "01/2023" for logs and warnings.
func (k Key) String() string {
	return fmt.Sprintf("%02d/%d", k.Month, k.Year)
}

// SheetLabel renders the abbreviated label used by the destination sheet's
// period column, e.g. "jan/23".
func (k Key) SheetLabel() string {
	return fmt.Sprintf("%s/%02d", monthAbbrev[k.Month], k.Year%100)
}

var monthAbbrev = [13]string{"", "jan", "fev", "mar", "abr", "mai", "jun",
	"jul", "ago", "set", "out", "nov", "dez"}

var monthNumbers = map[string]int{
	"janeiro": 1, "fevereiro": 2, "marco": 3, "março": 3, "abril": 4,
	"maio": 5, "junho": 6, "julho": 7, "agosto": 8, "setembro": 9,
	"outubro": 10, "novembro": 11, "dezembro": 12,
	"jan": 1, "fev": 2, "mar": 3, "abr": 4, "mai": 5, "jun": 6,
	"jul": 7, "ago": 8, "set": 9, "out": 10, "nov": 11, "dez": 12,
}

var referencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Refer[êe]ncia:\s*(\w+)/(\d{4})`),
	regexp.MustCompile(`(?i)Data\s*do\s*c[aá]lculo:\s*\d{2}/(\d{2})/(\d{4})`),
	regexp.MustCompile(`(?i)Per[ií]odo:\s*(\w+)/(\d{4})`),
	regexp.MustCompile(`(?i)Compet[êe]ncia:\s*(\w+)/(\d{4})`),
	regexp.MustCompile(`(\w+)\s*/\s*(\d{4})`),
}

// ParseReference scans page text for the competence period. Labelled forms
// ("Referência: janeiro/2023") are tried before the bare "<mês>/<ano>"
// fallback; month tokens may be names, abbreviations or numbers.
func ParseReference(text string) (Key, bool) {
	for _, pattern := range referencePatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			month, ok := parseMonthToken(match[1])
			if !ok {
				continue
			}
			year, err := strconv.Atoi(match[2])
			if err != nil {
				continue
			}
			key := Key{Month: month, Year: year}
			if key.Valid() {
				return key, true
			}
		}
	}
	return Key{}, false
}

func parseMonthToken(token string) (int, bool) {
	token = strings.ToLower(strings.TrimSpace(token))
	if m, ok := monthNumbers[token]; ok {
		return m, true
	}
	m, err := strconv.Atoi(token)
	if err != nil || m < 1 || m > 12 {
		return 0, false
	}
	return m, true
}

var cellDateLayouts = []string{
	"02/01/2006",
	"01/2006",
	"2006-01-02",
	"01-02-06",
}

// MatchCell reports whether one period-column cell refers to the key. Cells
// may hold the "jan/23" label, a formatted date, or the raw Excel serial
// number of the period's first day.
func MatchCell(cell string, k Key) bool {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return false
	}

	if strings.EqualFold(cell, k.SheetLabel()) {
		return true
	}

	if serial, err := strconv.ParseFloat(cell, 64); err == nil {
		t := FromSerial(serial)
		return int(t.Month()) == k.Month && t.Year() == k.Year
	}

	for _, layout := range cellDateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return int(t.Month()) == k.Month && t.Year() == k.Year
		}
	}
	return false
}

// FromSerial converts an Excel serial number to a date. Serials up to 59
// predate the fictitious 1900-02-29, so they use a shifted epoch.
func FromSerial(serial float64) time.Time {
	epoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	if serial <= 59 {
		epoch = time.Date(1899, time.December, 31, 0, 0, 0, 0, time.UTC)
	}
	return epoch.AddDate(0, 0, int(serial))
}
