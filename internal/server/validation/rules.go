package validation

import (
	"fmt"
	"net/mail"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"
)

// checker accumulates failures in the order rules are applied.
type checker struct {
	errs Errors
}

func (c *checker) add(field, format string, args ...any) {
	c.errs = append(c.errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (c *checker) notEmpty(field, v string) {
	if strings.TrimSpace(v) == "" {
		c.add(field, "must not be empty")
	}
}

func (c *checker) minLen(field, v string, n int) {
	if l := utf8.RuneCountInString(v); l < n {
		c.add(field, "must be at least %d characters, got %d", n, l)
	}
}

func (c *checker) maxLen(field, v string, n int) {
	if l := utf8.RuneCountInString(v); l > n {
		c.add(field, "must be at most %d characters, got %d", n, l)
	}
}

func (c *checker) lengthBetween(field, v string, lo, hi int) {
	c.minLen(field, v, lo)
	c.maxLen(field, v, hi)
}

func (c *checker) email(field, v string) {
	if !isEmail(v) {
		c.add(field, "must be a valid email address")
	}
}

func (c *checker) urlOrEmpty(field, v string) {
	if !IsURLOrEmpty(v) {
		c.add(field, "is not empty and not a valid fully-qualified http, https or ftp URL")
	}
}

func (c *checker) equal(field, v, otherField, other string) {
	if v != other {
		c.add(field, "must be equal to '%s'", otherField)
	}
}

func (c *checker) positive(field string, v int64) {
	if v <= 0 {
		c.add(field, "must be greater than 0")
	}
}

// isEmail accepts a bare RFC 5322 address ("ana@x.com"), not a display-name
// form such as "Ana <ana@x.com>".
func isEmail(v string) bool {
	addr, err := mail.ParseAddress(v)
	return err == nil && addr.Address == v && strings.Contains(v, "@")
}

// IsURLOrEmpty reports whether v is empty or an absolute http, https or ftp
// URL with a host.
func IsURLOrEmpty(v string) bool {
	if v == "" {
		return true
	}
	u, err := url.Parse(v)
	if err != nil || u.Host == "" {
		return false
	}
	return slices.Contains([]string{"http", "https", "ftp"}, strings.ToLower(u.Scheme))
}
