package types

import (
	"fmt"

	"sable/internal/ast"
	"sable/internal/token"
)

// ----- Analysis Errors -----

// Error is a positioned semantic-analysis error. All checker and
// inference failures are reported as this type.
type Error struct {
	Pos token.Position
	Msg string
}

func (e Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

func errorf(pos token.Position, format string, args ...interface{}) error {
	return Error{
		Pos: pos,
		Msg: fmt.Sprintf(format, args...),
	}
}

// ----- Types from AST -----

// typeFromNode resolves a parsed type annotation into a type term.
// When strict, references to undeclared record types are an error;
// otherwise they resolve to a Named term for later unification.
func typeFromNode(tn ast.TypeNode, defs map[string]*ast.TypeDef, strict bool) (Type, error) {
	switch t := tn.(type) {
	case *ast.SimpleType:
		switch t.Name {
		case "unit":
			return Unit, nil
		case "int":
			return Int, nil
		case "float":
			return Float, nil
		case "bool":
			return Bool, nil
		case "char":
			return Char, nil
		case "string":
			return String, nil
		case "void":
			return Void, nil
		default:
			if strict {
				if _, ok := defs[t.Name]; !ok {
					return Invalid, errorf(t.Pos(), "unknown type %q", t.Name)
				}
			}
			return &Named{Name: t.Name}, nil
		}

	case *ast.ArrayType:
		elem, err := typeFromNode(t.Elem, defs, strict)
		if err != nil {
			return Invalid, err
		}
		return &Array{Elem: elem}, nil

	case *ast.TupleType:
		elems := make([]Type, len(t.Elems))
		for i, en := range t.Elems {
			et, err := typeFromNode(en, defs, strict)
			if err != nil {
				return Invalid, err
			}
			elems[i] = et
		}
		return &Tuple{Elems: elems}, nil

	case *ast.VecType:
		elem, err := typeFromNode(t.Elem, defs, strict)
		if err != nil {
			return Invalid, err
		}
		return &Vector{Dim: t.Dim, Elem: elem}, nil

	case *ast.MatType:
		elem, err := typeFromNode(t.Elem, defs, strict)
		if err != nil {
			return Invalid, err
		}
		return &Matrix{Rows: t.Rows, Cols: t.Cols, Elem: elem}, nil

	case *ast.TensorType:
		elem, err := typeFromNode(t.Elem, defs, strict)
		if err != nil {
			return Invalid, err
		}
		dims := make([]int, len(t.Dims))
		copy(dims, t.Dims)
		return &Tensor{Dims: dims, Elem: elem}, nil

	case *ast.QuatType:
		elem, err := typeFromNode(t.Elem, defs, strict)
		if err != nil {
			return Invalid, err
		}
		return &Quaternion{Elem: elem}, nil

	case *ast.ComplexType:
		elem, err := typeFromNode(t.Elem, defs, strict)
		if err != nil {
			return Invalid, err
		}
		return &Complex{Elem: elem}, nil

	case *ast.FnType:
		params := make([]Type, len(t.Params))
		for i, pn := range t.Params {
			pt, err := typeFromNode(pn, defs, strict)
			if err != nil {
				return Invalid, err
			}
			params[i] = pt
		}
		res, err := typeFromNode(t.Result, defs, strict)
		if err != nil {
			return Invalid, err
		}
		prio, err := funcPriorityFromTag(t.Priority)
		if err != nil {
			return Invalid, err
		}
		return &Function{Params: params, Result: res, Priority: prio}, nil

	case *ast.PointerType:
		elem, err := typeFromNode(t.Elem, defs, strict)
		if err != nil {
			return Invalid, err
		}
		return &Pointer{Elem: elem}, nil

	default:
		return Invalid, errorf(tn.Pos(), "unsupported type node %T", tn)
	}
}

// funcPriorityFromTag converts a parsed @-tag into a function priority.
// Multi-level tags only make sense on storage declarations.
func funcPriorityFromTag(tag *ast.PriorityTag) (*FuncPriority, error) {
	if tag == nil {
		return nil, nil
	}
	switch tag.Kind {
	case ast.PriorityLevel:
		return &FuncPriority{Class: ClassLevel, Level: tag.Levels[0]}, nil
	case ast.PriorityMostHigh:
		return &FuncPriority{Class: ClassMostHigh}, nil
	case ast.PriorityMostLow:
		return &FuncPriority{Class: ClassMostLow}, nil
	case ast.PriorityMulti:
		return nil, errorf(tag.Pos(), "multi-level priority is not allowed on a function")
	default:
		return nil, errorf(tag.Pos(), "unsupported priority tag")
	}
}

// memPriorityFromTag converts a parsed @-tag into a memory priority.
func memPriorityFromTag(tag *ast.PriorityTag) (*MemPriority, error) {
	if tag == nil {
		return nil, nil
	}
	switch tag.Kind {
	case ast.PriorityLevel, ast.PriorityMulti:
		levels := make([]int, len(tag.Levels))
		copy(levels, tag.Levels)
		return &MemPriority{Class: ClassLevel, Levels: levels}, nil
	case ast.PriorityMostHigh:
		return &MemPriority{Class: ClassMostHigh}, nil
	case ast.PriorityMostLow:
		return &MemPriority{Class: ClassMostLow}, nil
	default:
		return nil, errorf(tag.Pos(), "unsupported priority tag")
	}
}

// MemPriorityOf exposes memory-priority conversion to the lowering stage.
func MemPriorityOf(tag *ast.PriorityTag) (*MemPriority, error) {
	return memPriorityFromTag(tag)
}

// FuncPriorityOf exposes function-priority conversion to the lowering
// stage.
func FuncPriorityOf(tag *ast.PriorityTag) (*FuncPriority, error) {
	return funcPriorityFromTag(tag)
}
