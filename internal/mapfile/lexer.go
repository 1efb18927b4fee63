package mapfile

import (
	"fmt"
	"strings"
)

// Token is a single lexical value of a mapfile.
type Token struct {
	// Text is the value with quotes removed and escapes resolved.
	Text string
	// Quote is the quote character the value was written with, '/' for a
	// regular expression, or 0 for a bare word.
	Quote byte
	// Suffix holds a modifier written directly after a closing quote ("i" for case-insensitive strings).
	Suffix string
	// Line is the 1-based source line the token started on.
	Line int
}

// Bare returns an unquoted token.
func Bare(text string) Token {
	return Token{Text: text}
}

// Quoted returns a double-quoted token.
func Quoted(text string) Token {
	return Token{Text: text, Quote: '"'}
}

// IsKeyword reports whether t is the bare word kw, compared case-insensitively.
func (t Token) IsKeyword(kw string) bool {
	return t.Quote == 0 && strings.EqualFold(t.Text, kw)
}

// String renders the token the way it is written in a mapfile.
func (t Token) String() string {
	switch t.Quote {
	case 0:
		return t.Text
	case '/':
		return "/" + t.Text + "/" + t.Suffix
	}
	q := string(t.Quote)
	escaped := strings.NewReplacer(`\`, `\\`, q, `\`+q).Replace(t.Text)
	return q + escaped + q + t.Suffix
}

// SyntaxError reports a malformed mapfile.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("mapfile: line %d: %s", e.Line, e.Msg)
}

// lex splits src into tokens, dropping whitespace and # comments.
func lex(src string) ([]Token, error) {
	var (
		toks []Token
		line = 1
		i    = 0
	)
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\n':
			line++
			i++
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == '"' || c == '\'':
			tok, next, nl, err := lexString(src, i, line)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			line += nl
			i = next
		case c == '/':
			if tok, next, ok := lexRegex(src, i, line); ok {
				toks = append(toks, tok)
				i = next
				continue
			}
			start := i
			for i < len(src) && !isSpace(src[i]) && src[i] != '#' {
				i++
			}
			toks = append(toks, Token{Text: src[start:i], Line: line})
		case c == '(':
			tok, next, nl, err := lexExpression(src, i, line)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			line += nl
			i = next
		default:
			start := i
			for i < len(src) && !isSpace(src[i]) && src[i] != '#' {
				i++
			}
			toks = append(toks, Token{Text: src[start:i], Line: line})
		}
	}
	return toks, nil
}

// lexString reads a quoted string starting at src[start]. It returns the
// token, the offset after it and the number of newlines it spanned.
func lexString(src string, start, line int) (Token, int, int, error) {
	q := src[start]
	var (
		b  strings.Builder
		nl int
		i  = start + 1
	)
	for {
		if i >= len(src) {
			return Token{}, 0, 0, &SyntaxError{Line: line, Msg: "unterminated string"}
		}
		c := src[i]
		if c == '\\' && i+1 < len(src) && (src[i+1] == q || src[i+1] == '\\') {
			b.WriteByte(src[i+1])
			i += 2
			continue
		}
		if c == q {
			i++
			break
		}
		if c == '\n' {
			nl++
		}
		b.WriteByte(c)
		i++
	}

	tok := Token{Text: b.String(), Quote: q, Line: line}
	i = caseSuffix(src, i, &tok)
	return tok, i, nl, nil
}

// lexRegex reads a /regular expression/ starting at src[start]. The pattern
// is kept verbatim, escapes included, and may not span lines. ok is false
// unless the first unescaped slash ends the word, so unquoted paths such as
// /data/shapes stay bare words.
func lexRegex(src string, start, line int) (tok Token, next int, ok bool) {
	for i := start + 1; i < len(src) && src[i] != '\n'; i++ {
		switch src[i] {
		case '\\':
			i++
		case '/':
			tok = Token{Text: src[start+1 : i], Quote: '/', Line: line}
			next = caseSuffix(src, i+1, &tok)
			if next < len(src) && !isSpace(src[next]) && src[next] != '#' {
				return Token{}, 0, false
			}
			return tok, next, true
		}
	}
	return Token{}, 0, false
}

// caseSuffix consumes an "i" written directly after a closing delimiter at src[i].
func caseSuffix(src string, i int, tok *Token) int {
	if i < len(src) && src[i] == 'i' && (i+1 == len(src) || isSpace(src[i+1])) {
		tok.Suffix = "i"
		return i + 1
	}
	return i
}

// lexExpression reads a parenthesised logical expression, which may contain
// spaces and quoted strings, as a single bare token.
func lexExpression(src string, start, line int) (Token, int, int, error) {
	var (
		depth int
		nl    int
		quote byte
		i     = start
	)
	for ; i < len(src); i++ {
		c := src[i]
		if c == '\n' {
			nl++
		}
		if quote != 0 {
			if c == '\\' && i+1 < len(src) {
				i++
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return Token{Text: src[start : i+1], Line: line}, i + 1, nl, nil
			}
		}
	}
	return Token{}, 0, 0, &SyntaxError{Line: line, Msg: "unterminated expression"}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
