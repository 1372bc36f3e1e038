package markdown

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// CodeWeights are the points awarded by each code-detection signal and
// the total at which a paragraph counts as code. The defaults are
// empirical; misclassifications are expected heuristic noise.
type CodeWeights struct {
	Keyword      int `yaml:"keyword"`
	Assignment   int `yaml:"assignment"`
	Punctuation  int `yaml:"punctuation"`
	Indentation  int `yaml:"indentation"`
	Token        int `yaml:"token"`
	Comment      int `yaml:"comment"`
	MethodCall   int `yaml:"method_call"`
	CoOccurrence int `yaml:"co_occurrence"`
	Threshold    int `yaml:"threshold"`
}

// DefaultCodeWeights returns the built-in weights.
func DefaultCodeWeights() CodeWeights {
	return CodeWeights{
		Keyword:      5,
		Assignment:   3,
		Punctuation:  2,
		Indentation:  3,
		Token:        1,
		Comment:      3,
		MethodCall:   4,
		CoOccurrence: 2,
		Threshold:    5,
	}
}

// LoadCodeWeights reads a YAML file over the defaults. Keys missing from
// the file keep their default value.
//
//	keyword: 6
//	threshold: 7
func LoadCodeWeights(path string) (CodeWeights, error) {
	w := DefaultCodeWeights()
	data, err := os.ReadFile(path)
	if err != nil {
		return w, fmt.Errorf("read heuristics: %w", err)
	}
	if err := yaml.Unmarshal(data, &w); err != nil {
		return DefaultCodeWeights(), fmt.Errorf("parse heuristics: %w", err)
	}
	if w.Threshold <= 0 {
		return DefaultCodeWeights(), fmt.Errorf("parse heuristics: threshold must be positive, got %d", w.Threshold)
	}
	return w, nil
}

var (
	reCodeKeyword    = regexp.MustCompile(`\b(def|class|function|if|for|while|try|except|import|from)\b`)
	reAssignment     = regexp.MustCompile(`[a-zA-Z_][a-zA-Z0-9_]*\s*=\s*`)
	reCodePunct      = regexp.MustCompile(`[{}\[\]();]`)
	reIndented       = regexp.MustCompile(`^\s{2,}`)
	reCommentMarker  = regexp.MustCompile(`(?m)^\s*(#|//|/\*|\*)`)
	reMethodCall     = regexp.MustCompile(`[a-zA-Z_][a-zA-Z0-9_]*\.[a-zA-Z_][a-zA-Z0-9_]*\s*\(`)
	programmingWords = compileWordSet(
		"return", "print", "var", "let", "const", "async", "await",
		"public", "private", "static", "void", "int", "float", "string",
		"bool", "True", "False", "None", "null", "undefined", "this",
		"self", "lambda", "map", "filter", "reduce",
	)
)

func compileWordSet(words ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(words))
	for i, w := range words {
		out[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(w) + `\b`)
	}
	return out
}

// CodeScore sums the signals present in a paragraph. lines are the
// paragraph's lines after trimming the paragraph itself.
func CodeScore(para string, lines []string, w CodeWeights) int {
	score := 0
	if reCodeKeyword.MatchString(para) {
		score += w.Keyword
	}
	if reAssignment.MatchString(para) {
		score += w.Assignment
	}
	if reCodePunct.MatchString(para) {
		score += w.Punctuation
	}
	for _, line := range lines {
		if reIndented.MatchString(line) {
			score += w.Indentation
			break
		}
	}
	for _, re := range programmingWords {
		if re.MatchString(para) {
			score += w.Token
		}
	}
	if reCommentMarker.MatchString(para) {
		score += w.Comment
	}
	if reMethodCall.MatchString(para) {
		score += w.MethodCall
	}
	if len(lines) >= 2 && anyContains(lines, "=") && anyContains(lines, ".") {
		score += w.CoOccurrence
	}
	return score
}

// IsCode reports whether the paragraph reaches the threshold.
func IsCode(para string, lines []string, w CodeWeights) bool {
	return CodeScore(para, lines, w) >= w.Threshold
}

func anyContains(lines []string, sub string) bool {
	for _, l := range lines {
		if strings.Contains(l, sub) {
			return true
		}
	}
	return false
}
