package markdown

import (
	"regexp"
	"strings"
)

// Block is the classification of one paragraph. Exactly one of
// CodeBlock, BulletList, NumberedList or Prose.
type Block interface {
	Kind() string
}

// CodeBlock is a paragraph fenced as code with a language tag ("" if unknown).
type CodeBlock struct {
	Language string
}

// BulletList is a paragraph whose non-blank lines all start with "-" or "*".
type BulletList struct{}

// NumberedList is a paragraph whose non-blank lines all start with "N." or "N)".
type NumberedList struct{}

// Prose is everything else.
type Prose struct{}

func (CodeBlock) Kind() string    { return "code" }
func (BulletList) Kind() string   { return "bullet_list" }
func (NumberedList) Kind() string { return "numbered_list" }
func (Prose) Kind() string        { return "prose" }

// Paragraph is a blank-line separated chunk of the input. Text is the raw
// chunk; Lines are the lines of the trimmed chunk.
type Paragraph struct {
	Text  string
	Lines []string
}

// NewParagraph splits a raw chunk into lines.
func NewParagraph(raw string) Paragraph {
	return Paragraph{Text: raw, Lines: strings.Split(strings.TrimSpace(raw), "\n")}
}

// Rule classifies a paragraph or declines.
type Rule struct {
	Name  string
	Match func(Paragraph) (Block, bool)
}

var (
	reBulletLine   = regexp.MustCompile(`^\s*[-*]\s`)
	reNumberedLine = regexp.MustCompile(`^\s*\d+[.)]\s`)
)

// DefaultRules returns the classification cascade in priority order:
// code, bullet list, numbered list, prose.
func DefaultRules(w CodeWeights) []Rule {
	return []Rule{
		{Name: "code", Match: func(p Paragraph) (Block, bool) {
			if !IsCode(p.Text, p.Lines, w) {
				return nil, false
			}
			return CodeBlock{Language: DetectLanguage(p.Text)}, true
		}},
		{Name: "bullet_list", Match: func(p Paragraph) (Block, bool) {
			return BulletList{}, allLinesMatch(p.Lines, reBulletLine)
		}},
		{Name: "numbered_list", Match: func(p Paragraph) (Block, bool) {
			return NumberedList{}, allLinesMatch(p.Lines, reNumberedLine)
		}},
		{Name: "prose", Match: func(Paragraph) (Block, bool) {
			return Prose{}, true
		}},
	}
}

// Classify returns the block of the first matching rule, Prose if none match.
func Classify(p Paragraph, rules []Rule) Block {
	for _, r := range rules {
		if b, ok := r.Match(p); ok {
			return b
		}
	}
	return Prose{}
}

func allLinesMatch(lines []string, re *regexp.Regexp) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		if !re.MatchString(l) {
			return false
		}
	}
	return true
}
