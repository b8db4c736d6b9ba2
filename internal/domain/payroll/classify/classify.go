// Package classify determines the payroll sheet type of a PDF page and the
// destination row band that type targets. Classification happens once per
// page; later occurrences of type keywords inside line descriptions never
// reclassify a page.
package classify

import (
	"regexp"
	"strings"
)

// SheetType is the kind of payroll sheet a page belongs to. Only Normal and
// Thirteenth pages are processed; every other type drops the page.
type SheetType string

const (
	Normal      SheetType = "NORMAL"
	Thirteenth  SheetType = "THIRTEENTH"
	Vacation    SheetType = "VACATION"
	Termination SheetType = "TERMINATION"
	Advance     SheetType = "ADVANCE"
	Unknown     SheetType = "UNKNOWN"
)

// Processed reports whether pages of this type yield line items.
func (t SheetType) Processed() bool {
	return t == Normal || t == Thirteenth
}

// RowBand is the destination row range reserved for a sheet type.
// End == 0 means open-ended (down to the last row of the sheet).
type RowBand struct {
	Start int
	End   int
}

// Band returns the row band a sheet type targets in the destination sheet:
// Normal periods live in rows 1-65, Thirteenth periods from row 67 down.
func Band(t SheetType) RowBand {
	switch t {
	case Normal:
		return RowBand{Start: 1, End: 65}
	case Thirteenth:
		return RowBand{Start: 67}
	default:
		return RowBand{}
	}
}

var (
	typeLinePattern    = regexp.MustCompile(`(?i)tipo\s+da\s+folha\s*:`)
	normalPattern      = regexp.MustCompile(`(?i)folha\s+normal`)
	thirteenthPattern  = regexp.MustCompile(`(?i)13\s*sal[áa]rio|13º\s*sal[áa]rio`)
	vacationPattern    = regexp.MustCompile(`(?i)f[ée]rias`)
	terminationPattern = regexp.MustCompile(`(?i)rescis[ãa]o`)
	advancePattern     = regexp.MustCompile(`(?i)adiantamento`)
)

const headerLines = 10

// Page classifies one logical page of text. The "Tipo da folha:" line wins
// when present; otherwise only the first ten lines are scanned for type
// keywords, and a page matching neither is Unknown.
func Page(text string) SheetType {
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		if !typeLinePattern.MatchString(line) {
			continue
		}
		return fromKeywords(line)
	}

	limit := len(lines)
	if limit > headerLines {
		limit = headerLines
	}
	header := strings.Join(lines[:limit], "\n")
	if t := fromKeywords(header); t != Unknown {
		return t
	}
	return Unknown
}

func fromKeywords(text string) SheetType {
	switch {
	case normalPattern.MatchString(text):
		return Normal
	case thirteenthPattern.MatchString(text):
		return Thirteenth
	case vacationPattern.MatchString(text):
		return Vacation
	case terminationPattern.MatchString(text):
		return Termination
	case advancePattern.MatchString(text):
		return Advance
	default:
		return Unknown
	}
}
