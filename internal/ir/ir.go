package ir

import (
	"fmt"
	"strings"

	us "github.com/rjNemo/underscore"

	"sable/internal/types"
)

// OpCode identifies one intermediate instruction.
type OpCode int

const (
	OpNop OpCode = iota

	OpAlloca // Dest = variable name; reserve a slot
	OpStore  // Dest = variable name, Src = value to store
	OpLoad   // Dest = temp, Src = variable reference
	OpAssign // Dest = temp, Src = value (pure copy)

	// Math / compare / logic
	OpBin // Dest = temp, Bin = operator, LHS/RHS = operands
	OpUn  // Dest = temp, Un = operator, Src = operand

	// Control flow
	OpLabel    // Label = name; branch target
	OpJump     // Label = unconditional target
	OpCondJump // Src = condition, Label = then target, Else = else target
	OpRet      // Src = result (ValNone for a bare return)

	// Calls
	OpCall // Dest = temp, Callee = function name, Args = operands

	// Priority declarations attached to storage
	OpPriority // Dest = variable name, Priority = memory priority
)

// BinOp is the operator of an OpBin instruction.
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Mod
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	And
	Or
)

func (op BinOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Mod:
		return "%"
	case Eq:
		return "=="
	case Ne:
		return "!="
	case Lt:
		return "<"
	case Le:
		return "<="
	case Gt:
		return ">"
	case Ge:
		return ">="
	case And:
		return "&&"
	case Or:
		return "||"
	default:
		return fmt.Sprintf("BinOp(%d)", int(op))
	}
}

// UnOp is the operator of an OpUn instruction.
type UnOp int

const (
	Neg UnOp = iota
	Not
)

func (op UnOp) String() string {
	switch op {
	case Neg:
		return "-"
	case Not:
		return "!"
	default:
		return fmt.Sprintf("UnOp(%d)", int(op))
	}
}

// Instr is one instruction. Field use depends on Op; unused fields stay
// zero.
type Instr struct {
	Op   OpCode
	Dest string

	Src Value
	LHS Value
	RHS Value

	Bin BinOp
	Un  UnOp

	Callee string
	Args   []Value

	Label string
	Else  string

	Priority *types.MemPriority
}

// Function is one lowered function body.
type Function struct {
	Name     string
	Params   []string
	Priority *types.FuncPriority
	Instrs   []Instr
}

// Module is a lowered program.
type Module struct {
	Functions []*Function
}

// Lookup returns the function with the given name, or nil.
func (m *Module) Lookup(name string) *Function {
	fn, err := us.Find(m.Functions, func(f *Function) bool { return f.Name == name })
	if err != nil {
		return nil
	}
	return fn
}

// ---------- Dumping ----------

func (i Instr) String() string {
	switch i.Op {
	case OpNop:
		return "nop"
	case OpAlloca:
		return fmt.Sprintf("%s = alloca", i.Dest)
	case OpStore:
		return fmt.Sprintf("store %s, %s", i.Dest, i.Src)
	case OpLoad:
		return fmt.Sprintf("%s = load %s", i.Dest, i.Src)
	case OpAssign:
		return fmt.Sprintf("%s = %s", i.Dest, i.Src)
	case OpBin:
		return fmt.Sprintf("%s = %s %s %s", i.Dest, i.LHS, i.Bin, i.RHS)
	case OpUn:
		return fmt.Sprintf("%s = %s%s", i.Dest, i.Un, i.Src)
	case OpLabel:
		return i.Label + ":"
	case OpJump:
		return "jump " + i.Label
	case OpCondJump:
		return fmt.Sprintf("condjump %s, %s, %s", i.Src, i.Label, i.Else)
	case OpRet:
		if i.Src.Kind == ValNone {
			return "ret"
		}
		return "ret " + i.Src.String()
	case OpCall:
		parts := make([]string, len(i.Args))
		for n, a := range i.Args {
			parts[n] = a.String()
		}
		return fmt.Sprintf("%s = call %s(%s)", i.Dest, i.Callee, strings.Join(parts, ", "))
	case OpPriority:
		return fmt.Sprintf("priority %s, %s", i.Dest, i.Priority)
	default:
		return fmt.Sprintf("op(%d)", int(i.Op))
	}
}

func (f *Function) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fn %s(%s)", f.Name, strings.Join(f.Params, ", "))
	if f.Priority != nil {
		fmt.Fprintf(&b, " @%s", f.Priority)
	}
	b.WriteString(" {\n")
	for _, in := range f.Instrs {
		if in.Op == OpLabel {
			b.WriteString(in.String() + "\n")
			continue
		}
		b.WriteString("  " + in.String() + "\n")
	}
	b.WriteString("}\n")
	return b.String()
}

func (m *Module) String() string {
	var b strings.Builder
	for n, fn := range m.Functions {
		if n > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fn.String())
	}
	return b.String()
}
