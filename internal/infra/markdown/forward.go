package markdown

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxHeadingRunes is the exclusive upper bound on a line promoted to heading.
const MaxHeadingRunes = 60

var (
	reParagraphBreak  = regexp.MustCompile(`\n\s*\n`)
	reClausePunctEnd  = regexp.MustCompile(`[.,:;]$`)
	reConjunctionEnd  = regexp.MustCompile(`(?i)\b(and|or|but|that|with|from|by|as|on)$`)
	reExistingHeading = regexp.MustCompile(`^#{1,6}\s`)
)

// forward holds the per-call state of one to_markdown conversion.
type forward struct {
	rules       []Rule
	headingSeen bool
	observe     func(Block)
}

func (f *forward) convert(input string) string {
	chunks := reParagraphBreak.Split(strings.TrimSpace(input), -1)
	out := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		p := NewParagraph(chunk)
		block := Classify(p, f.rules)
		if f.observe != nil {
			f.observe(block)
		}
		out = append(out, f.render(p, block))
	}
	return strings.Join(out, "\n\n")
}

func (f *forward) render(p Paragraph, block Block) string {
	switch b := block.(type) {
	case CodeBlock:
		return "```" + b.Language + "\n" + p.Text + "\n```"
	case BulletList, NumberedList:
		return Enhance(p.Text)
	default:
		return Enhance(f.prose(p.Lines))
	}
}

// prose promotes heading-like lines. The first heading in the document is
// level one, later ones level two.
func (f *forward) prose(lines []string) string {
	out := make([]string, len(lines))
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
			out[i] = ""
		case reExistingHeading.MatchString(line):
			f.headingSeen = true
			out[i] = line
		case IsHeadingLike(line):
			if f.headingSeen {
				out[i] = "## " + line
			} else {
				out[i] = "# " + line
				f.headingSeen = true
			}
		default:
			out[i] = line
		}
	}
	return strings.Join(out, "\n")
}

// IsHeadingLike reports whether a trimmed line is short, does not end with
// clause punctuation and does not end with a conjunction or preposition.
func IsHeadingLike(line string) bool {
	return utf8.RuneCountInString(line) < MaxHeadingRunes &&
		!reClausePunctEnd.MatchString(line) &&
		!reConjunctionEnd.MatchString(line)
}
