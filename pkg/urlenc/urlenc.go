// Package urlenc implements percent-encoding that matches ECMAScript's
// encodeURIComponent, which is what marketplace search URLs expect.
package urlenc

import "strings"

const upperhex = "0123456789ABCDEF"

// unreserved reports whether c passes through encodeURIComponent unescaped.
func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}

	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}

	return false
}

// Component escapes s for use as a single URL component. Every byte of the
// UTF-8 encoding outside the unreserved set becomes %XX with upper-case hex,
// so spaces are "%20" rather than "+".
func Component(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !unreserved(s[i]) {
			n++
		}
	}

	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)

	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}

	return b.String()
}
