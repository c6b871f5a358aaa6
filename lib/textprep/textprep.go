// Package textprep cleans raw text before it reaches the classifier. Clean folds accents, drops everything
// except letters and whitespace, collapses whitespace runs and upper-cases the result.
// All functions are stateless and safe for concurrent use.
package textprep

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DisplayWidth is the default width used to truncate texts in reports
const DisplayWidth = 30

const maxLineSize = 64 * 1024 // 64KB max line length

// Clean applies FoldAccents, RemoveNonAlpha, CollapseSpaces and Upper
func Clean(s string) string {
	return Upper(CollapseSpaces(RemoveNonAlpha(FoldAccents(s))))
}

// FoldAccents decomposes s and drops combining marks, "café" becomes "cafe"
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	res, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return res
}

// RemoveNonAlpha keeps letters and whitespace, all whitespace is turned into plain spaces
func RemoveNonAlpha(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r):
			return r
		case unicode.IsSpace(r):
			return ' '
		}
		return -1
	}, s)
}

// CollapseSpaces trims s and replaces every whitespace run with a single space
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Upper upper-cases s with language-neutral rules
func Upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// Truncate shortens s to at most width runes, replacing the tail with "...". Negative width is treated as 0.
func Truncate(s string, width int) string {
	width = max(width, 0)
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// ReadLines reads r line by line and returns cleaned lines, empty results are skipped
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, maxLineSize), maxLineSize)

	res := []string{}
	for scanner.Scan() {
		if line := Clean(scanner.Text()); line != "" {
			res = append(res, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lines: %w", err)
	}
	return res, nil
}

// ReadFile opens the file and returns its cleaned lines
func ReadFile(path string) ([]string, error) {
	fh, err := os.Open(path) //nolint:gosec // path is controlled by the caller
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer fh.Close()

	lines, err := ReadLines(fh)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return lines, nil
}
