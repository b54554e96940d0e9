package service

import (
	"regexp"
	"strings"
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a Serbian title into a URL-safe slug, transliterating the
// Latin diacritics the same way the site always has (š→s, č/ć→c, đ→d, ž→z).
func Slugify(title string) string {
	slug := strings.ToLower(title)
	replacer := strings.NewReplacer(
		"š", "s",
		"č", "c",
		"ć", "c",
		"đ", "d",
		"ž", "z",
	)
	slug = replacer.Replace(slug)
	slug = slugStrip.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
