// Package pdfio reads payroll PDFs and extracts per-page plain text plus the
// employee name from the first page.
package pdfio

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Document wraps an open PDF file. It satisfies the engine's page source.
type Document struct {
	file   *os.File
	reader *pdf.Reader
}

// Open opens a PDF for page text extraction. The caller must Close it.
func Open(path string) (*Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	return &Document{file: f, reader: reader}, nil
}

// Close releases the underlying file.
func (d *Document) Close() error {
	return d.file.Close()
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.reader.NumPage()
}

// PageText extracts the plain text of page i (zero-based). Null pages and
// pages that fail text extraction come back empty rather than as errors, so
// a damaged page degrades to an unclassified one.
func (d *Document) PageText(i int) (string, error) {
	page := d.reader.Page(i + 1)
	if page.V.IsNull() {
		return "", nil
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", nil
	}
	return text, nil
}

// Name patterns tried in order against each line of the first page. Payroll
// headers vary between "Nome:" labels followed by other header fields on the
// same line and labels that run to end of line.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)nome\s*:\s*([A-ZÁÇÃÂÊÔÉÍÓÚÀÈÌÒÙ\s]+?)(?:\n|$|[A-Z]{2,}:)`),
	regexp.MustCompile(`(?i)nome\s*:\s*(.+?)(?:\n|Endereço|ENDEREÇO|CPF|RG)`),
	regexp.MustCompile(`(?i)nome\s*:\s*(.+?)$`),
}

var (
	nonWordRe    = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	multiSpaceRe = regexp.MustCompile(`\s+`)
	letterRe     = regexp.MustCompile(`[A-ZÁÇÃÂÊÔÉÍÓÚÀÈÌÒÙ]`)
	fsUnsafeRe   = regexp.MustCompile(`[<>:"/\\|?*]`)
	ctrlRe       = regexp.MustCompile("[\x00-\x1f\x7f]")
)

// Label words that sometimes bleed into the captured name.
var excludedWords = map[string]bool{
	"NOME":        true,
	"FUNCIONARIO": true,
	"FUNCIONÁRIO": true,
	"TRABALHADOR": true,
	"COLABORADOR": true,
	"EMPREGADO":   true,
}

// PersonName extracts the employee name from first-page text. Returns false
// when no line yields a valid name.
func PersonName(firstPage string) (string, bool) {
	for _, line := range strings.Split(firstPage, "\n") {
		line = strings.TrimSpace(line)
		for _, re := range namePatterns {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if name, ok := CleanName(m[1]); ok {
				return name, true
			}
		}
	}
	return "", false
}

// CleanName uppercases, strips punctuation and label words, and validates
// the result. Names shorter than 3 runes, longer than 100, purely numeric
// or without any letter are rejected.
func CleanName(raw string) (string, bool) {
	name := strings.ToUpper(strings.TrimSpace(raw))
	name = nonWordRe.ReplaceAllString(name, " ")
	name = strings.TrimSpace(multiSpaceRe.ReplaceAllString(name, " "))

	if len([]rune(name)) < 3 || len([]rune(name)) > 100 {
		return "", false
	}
	if isAllDigits(strings.ReplaceAll(name, " ", "")) {
		return "", false
	}
	if !letterRe.MatchString(name) {
		return "", false
	}

	var kept []string
	for _, word := range strings.Fields(name) {
		if !excludedWords[word] {
			kept = append(kept, word)
		}
	}
	final := strings.Join(kept, " ")
	if len([]rune(final)) < 3 {
		return "", false
	}
	return final, true
}

// NormalizeFileName strips characters unsafe for file names, keeping spaces,
// and caps the result at 100 characters.
func NormalizeFileName(name string) string {
	s := fsUnsafeRe.ReplaceAllString(name, "")
	s = ctrlRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(multiSpaceRe.ReplaceAllString(s, " "))
	if len(s) > 100 {
		s = strings.TrimRight(s[:100], " ")
	}
	return s
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
