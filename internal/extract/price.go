// Package extract implements the tolerant extraction core: price/text
// normalization, recursive attribute harvesting and fallback-chain field
// resolution over semi-structured catalog trees.
package extract

import (
	"regexp"
	"strings"
)

var (
	spaceRunRe = regexp.MustCompile(`[\s\x{00A0}]+`)

	// Trailing "<digits> <currency>" pattern: a digit run with embedded
	// space/NBSP thousands separators, an optional ./, decimal part and up
	// to 4 trailing currency characters.
	trailingPriceRe = regexp.MustCompile(`([0-9 \x{00A0}]+(?:[.,][0-9]+)?)\s*([₽$€A-Za-z]{1,4})?$`)

	priceSeparatorReplacer = strings.NewReplacer("\u00A0", "", " ", "", ",", ".")
)

// NormalizePrice turns a free-text price-like string ("В сутки 100 ₽") into a
// normalized "<number> <currency>" token. When no trailing numeric pattern is
// found the whitespace-collapsed text is returned unchanged. Empty input
// yields "".
func NormalizePrice(text string) string {
	norm := strings.TrimSpace(spaceRunRe.ReplaceAllString(text, " "))
	if norm == "" {
		return ""
	}

	m := trailingPriceRe.FindStringSubmatch(norm)
	if m == nil {
		return norm
	}

	num := priceSeparatorReplacer.Replace(m[1])
	cur := m[2]
	if cur == "" && strings.Contains(norm, "₽") {
		cur = "₽"
	}
	return strings.TrimSpace(num + " " + cur)
}
