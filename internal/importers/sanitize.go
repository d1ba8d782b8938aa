package importers

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	keyInvalid     = regexp.MustCompile(`[^a-z0-9_\-]`)
	percentOctets  = regexp.MustCompile(`%[a-fA-F0-9]{2}`)
	orphanLessThan = regexp.MustCompile(`<([^a-zA-Z/!?]|$)`)
)

// SanitizeKey lowercases key and drops everything except a-z, 0-9, '_' and '-'.
func SanitizeKey(key string) string {
	return keyInvalid.ReplaceAllString(strings.ToLower(key), "")
}

// SanitizeText prepares a user supplied value for storage: invalid UTF-8 is
// dropped, HTML tags are stripped, percent-encoded octets are removed and all
// whitespace runs (including line breaks and tabs) collapse to single spaces.
func SanitizeText(value string) string {
	value = strings.ToValidUTF8(value, "")
	if strings.Contains(value, "<") {
		value = stripTags(value)
	}
	value = percentOctets.ReplaceAllString(value, "")
	return strings.Join(strings.Fields(value), " ")
}

// stripTags returns the text content of an HTML fragment. A '<' that cannot
// start a tag is kept as text.
func stripTags(value string) string {
	escaped := orphanLessThan.ReplaceAllString(value, "&lt;$1")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(escaped))
	if err != nil {
		return value
	}
	// Script and style bodies are not text content
	doc.Find("script, style").Remove()
	return doc.Text()
}
