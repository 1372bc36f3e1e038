package markdown

import (
	"regexp"
	"strings"
)

type languageRule struct {
	name   string
	detect func(code string) (tag string, ok bool)
}

var (
	rePyKeyword   = regexp.MustCompile(`\b(def|class|import|from|if __name__|print)\b`)
	rePyColon     = regexp.MustCompile(`(?m):\s*$`)
	reJSKeyword   = regexp.MustCompile(`\b(function|const|let|var|export)\b|\bimport\b.*\bfrom\b|=>`)
	reJSSemicolon = regexp.MustCompile(`(?m);\s*$`)
	reTSMarker    = regexp.MustCompile(`\b(interface|type)\b|<T>|:\s*(string|number|boolean)\b`)
	reHTMLPair    = regexp.MustCompile(`(?s)<[a-zA-Z]+[^>]*>.*?</[a-zA-Z]+>`)
	reHTMLSelf    = regexp.MustCompile(`<[a-zA-Z]+[^>]*/>`)
	reCSSRule     = regexp.MustCompile(`(?s)[a-zA-Z-]+\s*\{\s*[a-zA-Z-]+\s*:\s*[^;]+;\s*\}`)
	reClassy      = regexp.MustCompile(`\b(public|private|class|static|void)\b`)
	reBraceEOL    = regexp.MustCompile(`(?m)\{\s*$`)
	reJava        = regexp.MustCompile(`System\.out\.println|String\[\]|\bargs\b`)
	reCSharp      = regexp.MustCompile(`\b(Console|WriteLine|namespace)\b|using System`)
	reCFamily     = regexp.MustCompile(`\b(include|printf|scanf|malloc|int main|void main)\b`)
	reCPP         = regexp.MustCompile(`std::|\b(cout|cin|vector|string)\b`)
	reSQL         = regexp.MustCompile(`(?i)\b(SELECT|INSERT|UPDATE|DELETE|FROM|WHERE|JOIN)\b`)
	reShell       = regexp.MustCompile(`\b(chmod|chown|sudo|apt|yum|brew)\b`)
)

// languageRules run in order; the first match wins.
var languageRules = []languageRule{
	{name: "python", detect: func(c string) (string, bool) {
		return "py", rePyKeyword.MatchString(c) || rePyColon.MatchString(c)
	}},
	{name: "javascript", detect: func(c string) (string, bool) {
		if !reJSKeyword.MatchString(c) && !reJSSemicolon.MatchString(c) {
			return "", false
		}
		if reTSMarker.MatchString(c) {
			return "ts", true
		}
		return "js", true
	}},
	{name: "html", detect: func(c string) (string, bool) {
		return "html", reHTMLPair.MatchString(c) || reHTMLSelf.MatchString(c)
	}},
	{name: "css", detect: func(c string) (string, bool) {
		return "css", reCSSRule.MatchString(c)
	}},
	{name: "jvm", detect: func(c string) (string, bool) {
		if !reClassy.MatchString(c) || !reBraceEOL.MatchString(c) {
			return "", false
		}
		switch {
		case reJava.MatchString(c):
			return "java", true
		case reCSharp.MatchString(c):
			return "csharp", true
		}
		return "", false
	}},
	{name: "c", detect: func(c string) (string, bool) {
		if !reCFamily.MatchString(c) {
			return "", false
		}
		if reCPP.MatchString(c) {
			return "cpp", true
		}
		return "c", true
	}},
	{name: "sql", detect: func(c string) (string, bool) {
		return "sql", reSQL.MatchString(c)
	}},
	{name: "bash", detect: func(c string) (string, bool) {
		return "bash", strings.HasPrefix(c, "$") || strings.HasPrefix(c, "#!") || reShell.MatchString(c)
	}},
}

// DetectLanguage returns the fence tag for a code paragraph, or "" when
// no rule matches.
func DetectLanguage(code string) string {
	for _, r := range languageRules {
		if tag, ok := r.detect(code); ok {
			return tag
		}
	}
	return ""
}
