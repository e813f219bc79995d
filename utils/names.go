package utils

import "strings"

// SplitNames normalizes a raw multi-name submission into individual names.
// Parenthetical annotations (half- and full-width) are stripped, ASCII and
// full-width commas plus the enumeration mark count as separators alongside
// whitespace, and empty results are dropped. Order of first appearance is
// kept and duplicates are NOT removed here; the ledger's duplicate guard
// owns that decision.
func SplitNames(raw string) []string {
	if raw == "" {
		return nil
	}
	s := stripParens(raw)
	s = strings.Map(func(r rune) rune {
		switch r {
		case ',', '，', '、':
			return ' '
		}
		return r
	}, s)
	return strings.Fields(s)
}

// NormalizeName returns the first normalized name in raw, or "" when raw
// contains none.
func NormalizeName(raw string) string {
	names := SplitNames(raw)
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

// stripParens removes every complete parenthesis pair and its contents,
// from an opening mark to the first closing mark after it. An unterminated
// opening mark is kept as literal text.
func stripParens(s string) string {
	rs := []rune(s)
	var b strings.Builder
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if r == '(' || r == '（' {
			closed := -1
			for j := i + 1; j < len(rs); j++ {
				if rs[j] == ')' || rs[j] == '）' {
					closed = j
					break
				}
			}
			if closed >= 0 {
				i = closed
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
