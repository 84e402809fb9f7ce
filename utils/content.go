package utils

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	mdhtml "github.com/yuin/goldmark/renderer/html"
)

const wordsPerMinute = 200

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		// Raw HTML from rich-text editors passes through; every output is
		// sanitized by a bluemonday policy afterwards.
		goldmark.WithRendererOptions(
			mdhtml.WithHardWraps(),
			mdhtml.WithXHTML(),
			mdhtml.WithUnsafe(),
		),
	)
	ugcPolicy   = bluemonday.UGCPolicy()
	stripPolicy = bluemonday.StrictPolicy()
)

func init() {
	ugcPolicy.AllowImages()
	ugcPolicy.AddTargetBlankToFullyQualifiedLinks(true)
	ugcPolicy.RequireNoReferrerOnLinks(true)
	stripPolicy.AddSpaceWhenStrippingTag(true)
}

func markdownToHTML(source string) []byte {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		return []byte(html.EscapeString(source))
	}
	return buf.Bytes()
}

// RenderMarkdown converts post markdown to sanitized HTML.
func RenderMarkdown(source string) string {
	return string(ugcPolicy.SanitizeBytes(markdownToHTML(source)))
}

// PlainText renders markdown or HTML content and strips every tag, leaving
// readable text.
func PlainText(source string) string {
	stripped := stripPolicy.SanitizeBytes(markdownToHTML(source))
	return html.UnescapeString(string(stripped))
}

func WordCount(source string) int {
	return len(strings.Fields(PlainText(source)))
}

// ReadTime returns whole minutes at 200 words per minute, rounded up, never below one.
func ReadTime(content string) (int, string) {
	minutes := int(math.Ceil(float64(WordCount(content)) / wordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return minutes, fmt.Sprintf("%d min read", minutes)
}

// Excerpt returns the first maxWords words of the content's plain text.
func Excerpt(content string, maxWords int) string {
	words := strings.Fields(PlainText(content))
	if len(words) <= maxWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:maxWords], " ") + "…"
}
