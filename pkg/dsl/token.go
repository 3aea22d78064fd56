package dsl

import "fmt"

// Kind distinguishes the four token variants.
type Kind int

const (
	KindName  Kind = iota // vertex name operand
	KindText              // display text operand
	KindAlias             // '@' definition operator
	KindArrow             // link operator
)

func (k Kind) String() string {
	switch k {
	case KindName:
		return "name"
	case KindText:
		return "text"
	case KindAlias:
		return "alias"
	case KindArrow:
		return "arrow"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Polarity is the causal sign of a link.
type Polarity int

const (
	PolarityDefault Polarity = iota
	PolarityPositive
	PolarityNegative
)

func (p Polarity) String() string {
	switch p {
	case PolarityPositive:
		return "positive"
	case PolarityNegative:
		return "negative"
	default:
		return "default"
	}
}

// Symbol returns the arrow prefix that produces p.
func (p Polarity) Symbol() string {
	switch p {
	case PolarityPositive:
		return "+"
	case PolarityNegative:
		return "-"
	default:
		return ""
	}
}

// ParsePolarity maps the names returned by String back to a Polarity.
func ParsePolarity(s string) (Polarity, bool) {
	switch s {
	case "default", "":
		return PolarityDefault, true
	case "positive", "+":
		return PolarityPositive, true
	case "negative", "-":
		return PolarityNegative, true
	}
	return PolarityDefault, false
}

// Token is one lexical unit of a statement. Only the fields relevant to
// Kind are set: Value for names and texts, Framed for aliases, Polarity and
// Delayed for arrows.
type Token struct {
	Kind     Kind
	Value    string
	Pos      int
	Framed   bool
	Polarity Polarity
	Delayed  bool
}

// IsOperator reports whether the token is an alias or an arrow.
func (t Token) IsOperator() bool {
	return t.Kind == KindAlias || t.Kind == KindArrow
}

// Priority returns the binding strength of an operator token. Aliases bind
// tighter than arrows; operands have no priority.
func (t Token) Priority() int {
	switch t.Kind {
	case KindAlias:
		return 2
	case KindArrow:
		return 1
	}
	return 0
}

func (t Token) String() string {
	switch t.Kind {
	case KindName, KindText:
		return t.Value
	case KindAlias:
		if t.Framed {
			return "@[]"
		}
		return "@()"
	case KindArrow:
		return ArrowString(t.Polarity, t.Delayed)
	}
	return "?"
}
