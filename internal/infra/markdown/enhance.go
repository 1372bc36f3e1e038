package markdown

import (
	"regexp"
	"strings"
)

var (
	reBareURL  = regexp.MustCompile(`(https?://[^\s]+)`)
	reOpenTag  = regexp.MustCompile(`<(\w+)[^>]*>`)
	reCloseTag = regexp.MustCompile(`</(\w+)>`)
)

// Enhance applies the inline rewrites to non-code markdown, in order:
// *x* becomes **x**, _x_ becomes *x*, bare URLs become links and HTML-like
// tags are wrapped in code spans. Emphasis is never rewritten inside a URL.
func Enhance(s string) string {
	s = outsideURLs(s, func(part string) string {
		part = rewriteDelimited(part, '*', "**")
		return rewriteDelimited(part, '_', "*")
	})
	s = reBareURL.ReplaceAllString(s, "[$1]($1)")
	s = reOpenTag.ReplaceAllString(s, "`<$1>`")
	s = reCloseTag.ReplaceAllString(s, "`</$1>`")
	return s
}

// outsideURLs applies fn to the text between bare URLs.
func outsideURLs(s string, fn func(string) string) string {
	locs := reBareURL.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return fn(s)
	}
	var b strings.Builder
	last := 0
	for _, loc := range locs {
		b.WriteString(fn(s[last:loc[0]]))
		b.WriteString(s[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(fn(s[last:]))
	return b.String()
}

// rewriteDelimited replaces d…d spans by repl…repl. A span has at least one
// character, stays on one line, contains no d, and is neither preceded
// nor followed by another d.
func rewriteDelimited(s string, d byte, repl string) string {
	var b strings.Builder
	last := 0
	for i := 0; i < len(s); i++ {
		if s[i] != d || (i > 0 && s[i-1] == d) {
			continue
		}
		j := i + 1
		for j < len(s) && s[j] != d && s[j] != '\n' {
			j++
		}
		if j == i+1 || j >= len(s) || s[j] != d || (j+1 < len(s) && s[j+1] == d) {
			continue
		}
		b.WriteString(s[last:i])
		b.WriteString(repl)
		b.WriteString(s[i+1 : j])
		b.WriteString(repl)
		last = j + 1
		i = j
	}
	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}
