package fixtures

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var (
	firstNumber = regexp.MustCompile(`\d+`)
	orderNumber = regexp.MustCompile(`(?i)order\s*#?\s*(\d+)`)
	emailShape  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ExtractNumber returns the first run of digits in text, or "".
func ExtractNumber(text string) string {
	return firstNumber.FindString(text)
}

// ExtractOrderNumber finds "Order #123"-style numbers, or returns "".
func ExtractOrderNumber(text string) string {
	m := orderNumber.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

func NormalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// UniqueEmail derives a timestamped address from base.
func UniqueEmail(base string, now time.Time) string {
	return fmt.Sprintf("%s_%s@example.com", base, now.Format("20060102150405"))
}

// FullURL joins path onto base.
func FullURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// PathFromURL returns the path and query of raw, "/" for a bare host, and
// raw itself when it is not absolute.
func PathFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return raw
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return path
}

func ValidOrderNumber(s string) bool {
	return s != "" && firstNumber.FindString(s) == s
}

func ValidEmail(s string) bool {
	return emailShape.MatchString(s)
}
