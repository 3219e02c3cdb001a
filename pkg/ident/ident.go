// Package ident derives the human-readable keys used by the farmstand
// collections: product slugs, location ids and order numbers.
package ident

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/gosimple/slug"
)

const orderPrefix = "ORD-"

// Slugify lowercases s and reduces it to [a-z0-9] runs joined by single
// hyphens. Accented letters are transliterated; everything else separates
// words, including symbols slug.Make would otherwise spell out ("&" -> "and").
func Slugify(s string) string {
	base := slug.Make(strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, s))

	var b strings.Builder
	b.Grow(len(base))
	lastHyphen := true
	for _, r := range base {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// Unique returns base when it is free, otherwise base-2, base-3, ...
func Unique(base string, taken func(string) bool) string {
	if taken == nil || !taken(base) {
		return base
	}
	for n := 2; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if !taken(candidate) {
			return candidate
		}
	}
}

// OrderID formats the order number for an order placed at t.
func OrderID(t time.Time) string {
	return orderPrefix + strconv.FormatInt(t.UnixMilli(), 10)
}
