package main

import (
	"strings"

	"boxmend/detect"
	"boxmend/repair"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// fencedBlocks returns the content line segments of every fenced code
// block in src, in document order.
func fencedBlocks(src []byte) [][]text.Segment {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var blocks [][]text.Segment
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		lines := block.Lines()
		segments := make([]text.Segment, 0, lines.Len())
		for i := 0; i < lines.Len(); i++ {
			segments = append(segments, lines.At(i))
		}
		if len(segments) > 0 {
			blocks = append(blocks, segments)
		}
		return ast.WalkSkipChildren, nil
	})
	return blocks
}

// repairMarkdown repairs the diagrams inside fenced code blocks and leaves
// every other byte of src alone. With useDetector, blocks that do not look
// like diagrams are skipped.
func repairMarkdown(src string, useDetector bool) string {
	data := []byte(src)
	var out strings.Builder
	out.Grow(len(data))
	last := 0

	for _, segments := range fencedBlocks(data) {
		lines := make([]string, len(segments))
		endings := make([]string, len(segments))
		tabbed := false
		for i, seg := range segments {
			if seg.Padding > 0 {
				tabbed = true
				break
			}
			value := string(seg.Value(data))
			lines[i] = strings.TrimRight(value, "\r\n")
			endings[i] = value[len(lines[i]):]
		}
		// Tab-indented blocks have no byte range to splice into.
		if tabbed {
			continue
		}

		content := strings.Join(lines, "\n")
		if useDetector && !detect.LooksLikeASCIIArt(content) {
			continue
		}
		repaired := strings.Split(repair.Repair(content), "\n")
		if len(repaired) != len(lines) {
			continue
		}
		for i, seg := range segments {
			out.Write(data[last:seg.Start])
			out.WriteString(repaired[i])
			out.WriteString(endings[i])
			last = seg.Stop
		}
	}
	out.Write(data[last:])
	return out.String()
}
