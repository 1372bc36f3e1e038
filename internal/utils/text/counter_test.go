package text_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"textforge/internal/utils/text"
)

/* ───────── Character counting ───────── */

func TestCountRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "ASCII text", input: "hello", expected: 5},
		{name: "ASCII with spaces", input: "hello world", expected: 11},
		{name: "Japanese hiragana", input: "こんにちは", expected: 5},
		{name: "English and Japanese", input: "hello世界", expected: 7},
		{name: "empty string", input: "", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, text.CountRunes(tt.input))
		})
	}
}

/* ───────── Word counting ───────── */

func TestCountWords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "empty", input: "", expected: 0},
		{name: "whitespace only", input: "   \n\t ", expected: 0},
		{name: "punctuation is a separator", input: "Hello, world!", expected: 2},
		{name: "numbers are not words", input: "there are 123 apples", expected: 3},
		{name: "contraction is one word", input: "it's fine", expected: 2},
		{name: "alphanumeric token counts", input: "a1 2b", expected: 2},
		{name: "dash only", input: "— -- ...", expected: 0},
		{name: "accented letters", input: "café déjà vu", expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, text.CountWords(tt.input))
			assert.Len(t, text.Words(tt.input), tt.expected)
		})
	}
}

func TestCountWords_JoinIsAdditive(t *testing.T) {
	parts := []string{
		"The first sentence.",
		"Second one, with 42 numbers!",
		"(Parenthetical) remark?",
		"x",
	}
	sum := 0
	for _, p := range parts {
		sum += text.CountWords(p)
	}
	assert.Equal(t, sum, text.CountWords(strings.Join(parts, " ")))
}

/* ───────── Cleaning ───────── */

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "collapses whitespace", input: "  a \n\n b\tc  ", expected: "a b c"},
		{name: "space before punctuation", input: "Hello , world .", expected: "Hello, world."},
		{name: "space inside parentheses", input: "see ( this )", expected: "see (this)"},
		{name: "repeated punctuation", input: "Wait!!! Really??", expected: "Wait! Really?"},
		{name: "mixed run keeps last mark", input: "What?!", expected: "What!"},
		{name: "urls removed", input: "Read https://example.com/a?b=c now", expected: "Read now"},
		{name: "nfkc ligature", input: "ﬁne", expected: "fine"},
		{name: "nfkc full width", input: "ＡＢＣ", expected: "ABC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, text.Clean(tt.input))
		})
	}
}

/* ───────── Truncation ───────── */

func TestTruncateChars(t *testing.T) {
	assert.Equal(t, "héllo...", text.TruncateChars("héllo wörld", 5))
	assert.Equal(t, "short", text.TruncateChars("short", 10))
	assert.Equal(t, "...", text.TruncateChars("abc", 0))
}

func TestClip(t *testing.T) {
	assert.Equal(t, "日本", text.Clip("日本語", 2))
	assert.Equal(t, "abc", text.Clip("abc", 5))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "one two...", text.Truncate("one two three four", 2, true))
	assert.Equal(t, "one two", text.Truncate("one two three four", 2, false))
	assert.Equal(t, "one two", text.Truncate("one   two", 5, true))
}

func TestTruncateWords(t *testing.T) {
	assert.Equal(t, "alpha beta", text.TruncateWords("alpha beta gamma delta", 2))
	assert.Equal(t, "alpha 42 beta", text.TruncateWords("alpha 42 beta gamma", 2))
	assert.Equal(t, "", text.TruncateWords("alpha", 0))
}

/* ───────── Analysis ───────── */

func TestReadingTime(t *testing.T) {
	assert.Equal(t, 0, text.ReadingTime("", 200))
	assert.Equal(t, 1, text.ReadingTime("just a few words", 200))
	assert.Equal(t, 3, text.ReadingTime(strings.Repeat("word ", 450), 200))
	assert.Equal(t, 3, text.ReadingTime(strings.Repeat("word ", 450), 0))
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "english", input: "The cat is in the house and it is warm.", expected: "en"},
		{name: "spanish", input: "El perro y la casa de los niños que son grandes.", expected: "es"},
		{name: "french", input: "Le chat est dans une maison et les enfants sont là.", expected: "fr"},
		{name: "no markers", input: "zzz qqq", expected: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, text.DetectLanguage(tt.input))
		})
	}
}
