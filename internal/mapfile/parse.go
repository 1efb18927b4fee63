package mapfile

import (
	"strings"
)

// Node is a statement or a block of a mapfile.
//
// For a directive such as `SIZE 1920 1080`, Key is SIZE and Args holds the
// two sizes. For a metadata entry `"wms_title" "World"`, Key is the quoted
// key. Blocks have Block set and hold their statements in Children.
type Node struct {
	Key      Token
	Args     []Token
	Children []*Node
	Block    bool
}

// Is reports whether the node is introduced by the bare keyword kw.
func (n *Node) Is(kw string) bool {
	return n.Key.IsKeyword(kw)
}

// Find returns the first child introduced by keyword kw, or nil.
func (n *Node) Find(kw string) *Node {
	for _, c := range n.Children {
		if c.Is(kw) {
			return c
		}
	}
	return nil
}

// blockKeywords are the MapServer keywords that may open a block.
var blockKeywords = map[string]bool{
	"MAP":          true,
	"WEB":          true,
	"METADATA":     true,
	"VALIDATION":   true,
	"PROJECTION":   true,
	"LAYER":        true,
	"CLASS":        true,
	"STYLE":        true,
	"LABEL":        true,
	"LEADER":       true,
	"LEGEND":       true,
	"SCALEBAR":     true,
	"QUERYMAP":     true,
	"REFERENCE":    true,
	"OUTPUTFORMAT": true,
	"SYMBOL":       true,
	"FEATURE":      true,
	"POINTS":       true,
	"PATTERN":      true,
	"CLUSTER":      true,
	"GRID":         true,
	"JOIN":         true,
	"COMPOSITE":    true,
}

// parse builds the statement tree of src.
func parse(src string) ([]*Node, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}

	root := &Node{Block: true}
	stack := []*Node{root}
	lastLine := 1

	for _, line := range splitLines(toks) {
		lastLine = line[0].Line
		ends := countEnds(line)
		opened := 0
		for i := 0; i < len(line); {
			tok := line[i]
			cur := stack[len(stack)-1]

			if tok.IsKeyword("END") {
				if len(stack) == 1 {
					return nil, &SyntaxError{Line: tok.Line, Msg: "END without open block"}
				}
				stack = stack[:len(stack)-1]
				i++
				continue
			}

			if opensBlock(line, i, opened, ends) {
				block := &Node{Key: tok, Block: true}
				cur.Children = append(cur.Children, block)
				stack = append(stack, block)
				opened++
				i++
				continue
			}

			j := i + 1
			for j < len(line) && !line[j].IsKeyword("END") && !opensBlock(line, j, opened, ends) {
				j++
			}
			cur.Children = append(cur.Children, &Node{
				Key:  tok,
				Args: append([]Token(nil), line[i+1:j]...),
			})
			i = j
		}
	}

	if len(stack) > 1 {
		open := stack[len(stack)-1]
		return nil, &SyntaxError{Line: lastLine, Msg: "missing END for " + strings.ToUpper(open.Key.Text)}
	}
	return root.Children, nil
}

// opensBlock reports whether line[i] starts a block. A block keyword opens
// a block when it ends the line, or when the line still holds an END that
// no earlier block on the line has claimed.
func opensBlock(line []Token, i, opened, ends int) bool {
	tok := line[i]
	if tok.Quote != 0 || !blockKeywords[strings.ToUpper(tok.Text)] {
		return false
	}
	if i == len(line)-1 {
		return true
	}
	return opened < ends
}

func countEnds(line []Token) int {
	n := 0
	for _, t := range line {
		if t.IsKeyword("END") {
			n++
		}
	}
	return n
}

// splitLines groups tokens by the source line they start on.
func splitLines(toks []Token) [][]Token {
	var (
		lines [][]Token
		cur   []Token
	)
	for _, t := range toks {
		if len(cur) > 0 && cur[0].Line != t.Line {
			lines = append(lines, cur)
			cur = nil
		}
		cur = append(cur, t)
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return lines
}
