package markdown

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var reExcessNewlines = regexp.MustCompile(`\n{3,}`)

func (c *Converter) toText(md string) (string, error) {
	var rendered bytes.Buffer
	if err := c.engine.Convert([]byte(md), &rendered); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(&rendered)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	var b strings.Builder
	linearize(&b, doc.Selection)
	out := reExcessNewlines.ReplaceAllString(b.String(), "\n\n")
	out = html.UnescapeString(out)
	return strings.TrimSpace(out), nil
}

// linearize writes the text of the single node in sel and its subtree. It
// only reads the tree.
func linearize(b *strings.Builder, sel *goquery.Selection) {
	name := goquery.NodeName(sel)
	switch name {
	case "#text":
		if isStructuralWhitespace(sel) {
			return
		}
		b.WriteString(sel.Text())
		return
	case "#comment", "":
		return
	}

	switch name {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		b.WriteString("\n\n")
		children(b, sel)
		b.WriteString("\n")
	case "p", "div":
		if !isLeadingInListItem(sel) {
			b.WriteString("\n")
		}
		children(b, sel)
		b.WriteString("\n")
	case "li":
		b.WriteString(listMarker(sel))
		children(b, sel)
		b.WriteString("\n")
	case "pre":
		b.WriteString("\n")
		children(b, sel)
		b.WriteString("\n")
	case "code":
		if sel.Parent().Is("pre") {
			children(b, sel)
			return
		}
		b.WriteString("`")
		children(b, sel)
		b.WriteString("`")
	case "a":
		contents := sel.Contents()
		if href := sel.AttrOr("href", ""); href != "" &&
			contents.Length() == 1 && goquery.NodeName(contents) == "#text" {
			b.WriteString(contents.Text() + " (" + href + ")")
			return
		}
		children(b, sel)
	case "tr":
		children(b, sel)
		b.WriteString("\n")
	case "td", "th":
		children(b, sel)
		if sel.Next().Length() > 0 {
			b.WriteString("\t")
		}
	default:
		children(b, sel)
	}
}

func children(b *strings.Builder, sel *goquery.Selection) {
	sel.Contents().Each(func(_ int, c *goquery.Selection) {
		linearize(b, c)
	})
}

// listMarker is "N. " for the N-th li child of an ol (1-based) and "- "
// otherwise.
func listMarker(li *goquery.Selection) string {
	if !li.Parent().Is("ol") {
		return "- "
	}
	return strconv.Itoa(li.PrevAllFiltered("li").Length()+1) + ". "
}

// isStructuralWhitespace is true for whitespace-only text between the
// children of list and table containers.
func isStructuralWhitespace(text *goquery.Selection) bool {
	data := text.Text()
	if strings.TrimSpace(data) != "" {
		return false
	}
	switch goquery.NodeName(text.Parent()) {
	case "ul", "ol", "table", "thead", "tbody", "tr":
		return true
	case "li":
		return strings.Contains(data, "\n")
	}
	return false
}

// isLeadingInListItem reports whether sel opens its li, ignoring blank text.
func isLeadingInListItem(sel *goquery.Selection) bool {
	parent := sel.Parent()
	if !parent.Is("li") {
		return false
	}
	leading := true
	parent.Contents().EachWithBreak(func(_ int, c *goquery.Selection) bool {
		if c.IsSelection(sel) {
			return false
		}
		if goquery.NodeName(c) != "#text" || strings.TrimSpace(c.Text()) != "" {
			leading = false
			return false
		}
		return true
	})
	return leading
}
