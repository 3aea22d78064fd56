package dsl

import (
	"strings"

	"github.com/matzehuels/loopline/pkg/errors"
)

// textPunct lists the punctuation allowed inside alias text besides letters,
// digits and whitespace.
const textPunct = ",.!?-;:"

// scanner splits source text into statements of infix tokens.
type scanner struct {
	src string
	pos int
}

func newScanner(src string) *scanner {
	return &scanner{src: src}
}

// next returns the tokens of the next statement, excluding its terminating
// semicolon. done is true once only whitespace remains.
func (s *scanner) next() (toks []Token, done bool, err error) {
	s.skipSpace()
	if s.eof() {
		return nil, true, nil
	}

	for {
		vt, err := s.vertex()
		if err != nil {
			return nil, false, err
		}
		toks = append(toks, vt...)

		s.skipSpace()
		if s.eof() {
			return nil, false, errors.NewAt(errors.ErrCodeMissingTerminator, s.pos,
				"expected ';' at end of statement")
		}
		if s.peek() == ';' {
			s.pos++
			return toks, false, nil
		}

		at, err := s.arrow()
		if err != nil {
			return nil, false, err
		}
		toks = append(toks, at)
		s.skipSpace()
	}
}

// vertex reads an alias definition (three tokens) or a name reference.
func (s *scanner) vertex() ([]Token, error) {
	if s.eof() {
		return nil, errors.NewAt(errors.ErrCodeUnexpectedChar, s.pos,
			"unexpected end of input, expected vertex")
	}

	c := s.peek()
	switch {
	case c == '@':
		return s.alias()
	case isLetter(c):
		start := s.pos
		return []Token{{Kind: KindName, Value: s.name(), Pos: start}}, nil
	}
	return nil, s.unexpected()
}

func (s *scanner) alias() ([]Token, error) {
	at := s.pos
	s.pos++ // '@'
	if s.eof() || !isLetter(s.peek()) {
		if s.eof() {
			return nil, errors.NewAt(errors.ErrCodeUnexpectedChar, s.pos,
				"unexpected end of input, expected alias name")
		}
		return nil, s.unexpected()
	}
	nameStart := s.pos
	name := s.name()

	s.skipSpace()
	if s.eof() {
		return nil, errors.NewAt(errors.ErrCodeUnterminatedAlias, s.pos,
			"expected '(' or '[' after alias %q", name)
	}

	var closer byte
	framed := false
	switch s.peek() {
	case '(':
		closer = ')'
	case '[':
		closer = ']'
		framed = true
	default:
		return nil, s.unexpected()
	}
	s.pos++
	textStart := s.pos

	for !s.eof() && s.peek() != closer {
		if !isTextChar(s.peek()) {
			return nil, errors.NewAt(errors.ErrCodeUnterminatedAlias, s.pos,
				"expected '%c' to close alias %q, found %q", closer, name, s.peek())
		}
		s.pos++
	}
	if s.eof() {
		return nil, errors.NewAt(errors.ErrCodeUnterminatedAlias, s.pos,
			"expected '%c' to close alias %q", closer, name)
	}
	text := s.src[textStart:s.pos]
	s.pos++ // closer

	return []Token{
		{Kind: KindName, Value: name, Pos: nameStart},
		{Kind: KindAlias, Pos: at, Framed: framed},
		{Kind: KindText, Value: text, Pos: textStart},
	}, nil
}

func (s *scanner) arrow() (Token, error) {
	t := Token{Kind: KindArrow, Pos: s.pos}

	if s.peek() == '|' {
		s.pos++
		if s.eof() || s.peek() != '|' {
			return t, s.malformedArrow()
		}
		s.pos++
		t.Delayed = true
	}
	if !s.eof() {
		switch s.peek() {
		case '+':
			t.Polarity = PolarityPositive
			s.pos++
		case '-':
			t.Polarity = PolarityNegative
			s.pos++
		}
	}
	if s.eof() || s.peek() != '>' {
		if t.Delayed || t.Polarity != PolarityDefault {
			return t, s.malformedArrow()
		}
		if s.eof() {
			return t, s.malformedArrow()
		}
		return t, s.unexpected()
	}
	s.pos++
	return t, nil
}

func (s *scanner) name() string {
	start := s.pos
	for !s.eof() && isNameChar(s.peek()) {
		s.pos++
	}
	return s.src[start:s.pos]
}

func (s *scanner) skipSpace() {
	for !s.eof() && isSpace(s.peek()) {
		s.pos++
	}
}

func (s *scanner) eof() bool  { return s.pos >= len(s.src) }
func (s *scanner) peek() byte { return s.src[s.pos] }

func (s *scanner) unexpected() error {
	return errors.NewAt(errors.ErrCodeUnexpectedChar, s.pos,
		"unexpected token %q", s.src[s.pos])
}

func (s *scanner) malformedArrow() error {
	return errors.NewAt(errors.ErrCodeMalformedArrow, s.pos,
		"expected arrow definition")
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isNameChar(c byte) bool { return isLetter(c) || isDigit(c) || c == '_' }

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isTextChar(c byte) bool {
	return isLetter(c) || isDigit(c) || isSpace(c) || strings.IndexByte(textPunct, c) >= 0
}
