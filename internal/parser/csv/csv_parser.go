// Package csv parses delimited dataset files into raw records. It reads
// row by row, soft-skips malformed or misaligned lines with a count, and
// canonicalizes header names so downstream rules can address columns by
// stable keys.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"salesetl/pkg/records"
)

// Options configures the CSV parser behavior. All fields are optional;
// sensible defaults are applied when a field is zero.
type Options struct {
	// HasHeader indicates whether the first row contains column headers.
	HasHeader bool

	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing spaces from each field value.
	TrimSpace bool

	// HeaderMap maps source header names to canonical keys. Applied after
	// normalization, so keys are matched in their folded snake_case form.
	HeaderMap map[string]string
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\xef\xbb\xbf"

// logSkipLimit caps the number of per-row skip log lines per parse.
const logSkipLimit = 20

// Parse consumes CSV records from r and returns parsed rows plus the
// number of rows skipped due to parse errors or field-count mismatches.
// Empty cells decode to nil so the normalizer can tag them NullOrMissing.
func (p *Parser) Parse(r io.Reader) ([]records.Record, int, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.FieldsPerRecord = -1 // width enforced against the header below

	var headers []string
	if p.opt.HasHeader {
		h, err := cr.Read()
		if err != nil {
			return nil, 0, fmt.Errorf("read csv header: %w", err)
		}
		headers = normalizeHeaders(h, p.opt)
	}

	var out []records.Record
	var skipped int

	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if skipped < logSkipLimit {
				log.Printf("csv: skipping row %d: %v", line, err)
			}
			skipped++
			continue
		}
		if len(headers) > 0 && len(row) != len(headers) {
			if skipped < logSkipLimit {
				log.Printf("csv: skipping row %d: expected %d fields, got %d", line, len(headers), len(row))
			}
			skipped++
			continue
		}

		rec := make(records.Record, len(row))
		for i, val := range row {
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			rec[keyFor(i, headers)] = emptyToNil(val)
		}
		out = append(out, rec)
	}
	return out, skipped, nil
}

// keyFor returns the column key for index idx, using headers when available,
// otherwise synthesizing a "col_N" name.
func keyFor(idx int, headers []string) string {
	if idx < len(headers) && headers[idx] != "" {
		return headers[idx]
	}
	return fmt.Sprintf("col_%d", idx)
}

// emptyToNil converts an empty string to nil; all other values pass through.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// foldMarks strips combining marks so accented headers ("Jméno") fold to
// plain ASCII keys ("jmeno").
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeHeaders produces canonical header keys: BOM stripped from the
// first cell, diacritics folded, lower-cased, spaces to underscores, then
// HeaderMap overrides applied.
func normalizeHeaders(h []string, opt Options) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		if folded, _, err := transform.String(foldMarks, c); err == nil {
			c = folded
		}
		c = strings.ReplaceAll(strings.ToLower(c), " ", "_")
		if opt.HeaderMap != nil {
			if m, ok := opt.HeaderMap[c]; ok && m != "" {
				c = m
			}
		}
		res[i] = c
	}
	return res
}
