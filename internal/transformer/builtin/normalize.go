// Package builtin contains the concrete normalization, validation and
// de-duplication stages of the seed QA pipeline.
package builtin

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"seedqa/pkg/records"
)

// Normalize cleans every raw cell: Unicode NFC, non-breaking spaces folded to
// plain spaces, control characters other than newline removed, surrounding
// whitespace trimmed. It runs before coercion so that ids are computed from
// the cleaned barcode.
type Normalize struct{}

// Apply implements transformer.Transformer[records.Raw].
func (Normalize) Apply(in []records.Raw) []records.Raw {
	t := newCleaner()
	for i := range in {
		for f := range in[i].Cells {
			in[i].Cells[f] = cleanText(t, in[i].Cells[f])
		}
	}
	return in
}

func newCleaner() transform.Transformer {
	return transform.Chain(
		norm.NFC,
		runes.Map(func(r rune) rune {
			if r == '\u00a0' {
				return ' '
			}
			return r
		}),
		runes.Remove(runes.Predicate(func(r rune) bool {
			return unicode.IsControl(r) && r != '\n' && r != '\t'
		})),
	)
}

func cleanText(t transform.Transformer, s string) string {
	if s == "" {
		return s
	}
	// Latin-1 mojibake of a UTF-8 NBSP shows up in exported sheets.
	s = strings.ReplaceAll(s, "\u00c2\u00a0", " ")
	if !plainASCII(s) {
		if out, _, err := transform.String(t, s); err == nil {
			s = out
		}
	}
	return strings.TrimSpace(s)
}

func plainASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= utf8.RuneSelf || (c < 0x20 && c != '\n' && c != '\t') || c == 0x7f {
			return false
		}
	}
	return true
}
