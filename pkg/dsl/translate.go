package dsl

import (
	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/matzehuels/loopline/pkg/errors"
)

// Translate reads a complete program and returns its vertex and link pools.
// An empty program yields empty pools. The first lexical or semantic error
// aborts translation.
func Translate(src string) (*VertexPool, *LinkPool, error) {
	vp := NewVertexPool()
	lp := NewLinkPool()
	sc := newScanner(src)

	var refs []Token
	for {
		toks, done, err := sc.next()
		if err != nil {
			return nil, nil, err
		}
		if done {
			break
		}
		refs = append(refs, references(toks)...)

		if err := apply(postfix(toks), vp, lp); err != nil {
			return nil, nil, err
		}
	}

	for _, r := range refs {
		if _, ok := vp.ByName(r.Value); !ok {
			return nil, nil, errors.NewAt(errors.ErrCodeUndefinedVertex, r.Pos,
				"vertex %q is not defined", r.Value)
		}
	}
	return vp, lp, nil
}

// references returns the name tokens of a statement that use a vertex
// rather than define it.
func references(toks []Token) []Token {
	var out []Token
	for i, t := range toks {
		if t.Kind != KindName {
			continue
		}
		if i+1 < len(toks) && toks[i+1].Kind == KindAlias {
			continue
		}
		out = append(out, t)
	}
	return out
}

// postfix reorders an infix statement so operators follow their operands.
// An incoming operator first emits every pending operator that binds
// tighter than itself.
func postfix(toks []Token) []Token {
	out := make([]Token, 0, len(toks))
	ops := arraystack.New()

	for _, t := range toks {
		if !t.IsOperator() {
			out = append(out, t)
			continue
		}
		for {
			top, ok := ops.Peek()
			if !ok || t.Priority() >= top.(Token).Priority() {
				break
			}
			ops.Pop()
			out = append(out, top.(Token))
		}
		ops.Push(t)
	}
	for !ops.Empty() {
		top, _ := ops.Pop()
		out = append(out, top.(Token))
	}
	return out
}

// apply replays a postfix statement, registering vertices and links.
func apply(seq []Token, vp *VertexPool, lp *LinkPool) error {
	operands := arraystack.New()

	for _, t := range seq {
		if !t.IsOperator() {
			operands.Push(t)
			continue
		}

		right, rok := operands.Pop()
		left, lok := operands.Pop()
		if !rok || !lok {
			return errors.NewAt(errors.ErrCodeOperandType, t.Pos,
				"missing operand for %s operation", t.Kind)
		}

		result, err := applyOp(t, left.(Token), right.(Token), vp, lp)
		if err != nil {
			return err
		}
		operands.Push(result)
	}
	return nil
}

func applyOp(op, left, right Token, vp *VertexPool, lp *LinkPool) (Token, error) {
	switch op.Kind {
	case KindAlias:
		if left.Kind != KindName || right.Kind != KindText {
			return Token{}, errors.NewAt(errors.ErrCodeOperandType, op.Pos,
				"unsupported operand types for alias operation: %s and %s", left.Kind, right.Kind)
		}
		if _, ok := vp.ByName(left.Value); ok {
			return Token{}, errors.NewAt(errors.ErrCodeDuplicateVertex, left.Pos,
				"vertex %q is already defined", left.Value)
		}
		if _, err := vp.Put(left.Value, right.Value, op.Framed); err != nil {
			return Token{}, err
		}

	case KindArrow:
		if left.Kind != KindName || right.Kind != KindName {
			return Token{}, errors.NewAt(errors.ErrCodeOperandType, op.Pos,
				"unsupported operand types for arrow operation: %s and %s", left.Kind, right.Kind)
		}
		lp.pushAt(Link{
			Left:     left.Value,
			Right:    right.Value,
			Polarity: op.Polarity,
			Delayed:  op.Delayed,
		}, left.Pos, right.Pos)
	}
	return left, nil
}
