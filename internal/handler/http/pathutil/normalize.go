package pathutil

import (
	"regexp"
	"strings"
)

// Other is the label used for paths no route knows about.
const Other = "other"

type pattern struct {
	re       *regexp.Regexp
	template string
}

var patterns = []pattern{
	{regexp.MustCompile(`^/api/summaries/[^/]+$`), "/api/summaries/:id"},
	{regexp.MustCompile(`^/api/conversions/[^/]+$`), "/api/conversions/:id"},
}

var static = map[string]struct{}{
	"/":              {},
	"/api/summarize": {},
	"/api/markdown":  {},
	"/api/health":    {},
	"/health":        {},
	"/ready":         {},
	"/live":          {},
	"/metrics":       {},
}

// NormalizePath maps a request path to a bounded set of labels:
// ID paths become templates and unknown paths become Other.
//
//	NormalizePath("/api/summaries/42")  // "/api/summaries/:id"
//	NormalizePath("/api/summarize/")    // "/api/summarize"
//	NormalizePath("/wp-login.php")      // "other"
func NormalizePath(path string) string {
	if i := strings.IndexByte(path, '?'); i != -1 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	if _, ok := static[path]; ok {
		return path
	}
	for _, p := range patterns {
		if p.re.MatchString(path) {
			return p.template
		}
	}
	return Other
}
