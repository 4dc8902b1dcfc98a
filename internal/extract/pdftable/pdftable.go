// Package pdftable extracts tabular rows from ledger PDFs. The reports are a
// hybrid of positioned table text and free text, so extraction runs both
// ways: row-grouped text per page first, then a plain-text fallback for rows
// the positional pass missed, with duplicate suppression between the two.
package pdftable

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"

	"github.com/dslipak/pdf"

	"github.com/dparodi/hacienda/internal/extract"
)

// moneyToken matches an Argentine-locale monetary token ("1.234.567,89").
var moneyToken = regexp.MustCompile(`-?\d{1,3}(?:\.\d{3})*,\d{2}`)

// leadingNumeric recognizes a data row by its leading numeric token.
var leadingNumeric = regexp.MustCompile(`^\d+\s`)

// Lines reads every page of the PDF and returns candidate text lines:
// positionally grouped rows first, then plain-text lines not already
// captured, so a row found both ways is counted once.
func Lines(path string) ([]string, error) {
	if err := extract.CheckFile(path); err != nil {
		return nil, err
	}

	r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", extract.ErrBadFormat, err)
	}

	var lines []string

	seen := make(map[string]bool)

	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}

		for _, row := range rows {
			var parts []string

			for _, text := range row.Content {
				if s := strings.TrimSpace(text.S); s != "" {
					parts = append(parts, s)
				}
			}

			if len(parts) == 0 {
				continue
			}

			line := strings.Join(parts, " ")

			lines = append(lines, line)
			seen[squash(line)] = true
		}
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return lines, nil
	}

	scanner := bufio.NewScanner(plain)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || seen[squash(line)] {
			continue
		}

		lines = append(lines, line)
	}

	return lines, nil
}

// DataRows filters candidate lines down to ledger data rows: a leading
// numeric token, at least minAmounts monetary tokens, and none of the given
// literal header/footer/total prefixes.
func DataRows(lines []string, minAmounts int, excludePrefixes []string) []string {
	var out []string

next:
	for _, line := range lines {
		for _, prefix := range excludePrefixes {
			if strings.HasPrefix(line, prefix) {
				continue next
			}
		}

		if !leadingNumeric.MatchString(line) {
			continue
		}

		if len(moneyToken.FindAllString(line, -1)) < minAmounts {
			continue
		}

		out = append(out, line)
	}

	return out
}

// Amounts returns every monetary token in the line, left to right.
func Amounts(line string) []string {
	return moneyToken.FindAllString(line, -1)
}

// squash collapses runs of whitespace so the same row extracted by the
// positional and plain-text passes compares equal.
func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
