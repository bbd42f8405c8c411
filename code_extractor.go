package gochat

import (
	"regexp"
	"strings"
)

// CodeExtractor defines the interface for extracting code blocks from text.
type CodeExtractor interface {
	ExtractCodeBlocks(input string) []CodeBlock
}

// MarkdownCodeExtractor implements CodeExtractor for Markdown-formatted text.
// The zero value is ready to use and safe for concurrent callers.
type MarkdownCodeExtractor struct{}

// The first alternative swallows an inline pair (both runs on one line) so
// its closing run is never taken for an opening fence. The second is a
// real block: the opener runs to the end of its line and the body is
// matched lazily up to the next fence, so an unclosed fence never matches.
var codeBlockRe = regexp.MustCompile("(?s)```[^\\n`]*```|```([^\\n`]*)\\n(.*?)```")

// blockMatches returns submatch indexes of the fenced blocks in input,
// leaving out inline pairs.
func blockMatches(input string) [][]int {
	all := codeBlockRe.FindAllStringSubmatchIndex(input, -1)
	blocks := all[:0]
	for _, loc := range all {
		if loc[4] >= 0 {
			blocks = append(blocks, loc)
		}
	}
	return blocks
}

func blockAt(input string, loc []int) CodeBlock {
	return CodeBlock{
		Language: fenceLanguage(input[loc[2]:loc[3]]),
		Code:     input[loc[4]:loc[5]],
	}
}

// ExtractCodeBlocks parses the input text and returns its closed fenced
// blocks in source order.
func (m MarkdownCodeExtractor) ExtractCodeBlocks(input string) []CodeBlock {
	matches := blockMatches(input)
	blocks := make([]CodeBlock, 0, len(matches))
	for _, loc := range matches {
		blocks = append(blocks, blockAt(input, loc))
	}
	return blocks
}

// ExtractCodeBlocks runs the markdown extractor over input.
func ExtractCodeBlocks(input string) []CodeBlock {
	return MarkdownCodeExtractor{}.ExtractCodeBlocks(input)
}

// fenceLanguage returns the tag of an info string, or "" when the info
// string is empty or holds more than one word.
func fenceLanguage(info string) string {
	info = strings.TrimSpace(info)
	if info == "" || strings.ContainsAny(info, " \t\r\v\f") {
		return ""
	}
	return info
}

// Segment is one piece of a message: either prose or a code block.
type Segment struct {
	Prose string
	Block *CodeBlock
}

// IsCode reports whether the segment holds a code block.
func (s Segment) IsCode() bool {
	return s.Block != nil
}

// SplitSegments cuts input into prose and code segments in source order.
// Unclosed fences and inline pairs stay part of the surrounding prose.
// Empty prose between adjacent blocks is dropped.
func SplitSegments(input string) []Segment {
	var segments []Segment
	last := 0
	for _, loc := range blockMatches(input) {
		if prose := input[last:loc[0]]; prose != "" {
			segments = append(segments, Segment{Prose: prose})
		}
		block := blockAt(input, loc)
		segments = append(segments, Segment{Block: &block})
		last = loc[1]
	}
	if rest := input[last:]; rest != "" {
		segments = append(segments, Segment{Prose: rest})
	}
	return segments
}
