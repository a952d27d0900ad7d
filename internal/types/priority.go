package types

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Priority tags come in three families: log severities (informational
// only), function priorities (attached to function types) and memory
// priorities (attached to storage declarations).

// LogLevel is an enumerated log severity. It never affects ownership
// precedence.
type LogLevel int

const (
	LogLog LogLevel = iota
	LogInfo
	LogDebug
	LogWarn
	LogAlert
	LogError
)

func (l LogLevel) String() string {
	switch l {
	case LogLog:
		return "log"
	case LogInfo:
		return "info"
	case LogDebug:
		return "debug"
	case LogWarn:
		return "warn"
	case LogAlert:
		return "alert"
	case LogError:
		return "error"
	default:
		return fmt.Sprintf("LogLevel(%d)", int(l))
	}
}

// PriorityClass distinguishes numeric levels from the sentinel extremes.
type PriorityClass int

const (
	ClassLevel PriorityClass = iota
	ClassMostLow
	ClassMostHigh
)

// FuncPriority is the priority tag a function type may carry: a numeric
// level or one of the sentinels.
type FuncPriority struct {
	Class PriorityClass
	Level int // meaningful only for ClassLevel
}

func (p *FuncPriority) String() string {
	if p == nil {
		return "none"
	}
	switch p.Class {
	case ClassMostLow:
		return "most_low"
	case ClassMostHigh:
		return "most_high"
	default:
		return fmt.Sprintf("%d", p.Level)
	}
}

// Equal reports whether two tags are the same, treating nil as "untagged".
func (p *FuncPriority) Equal(q *FuncPriority) bool {
	if p == nil || q == nil {
		return p == q
	}
	if p.Class != q.Class {
		return false
	}
	return p.Class != ClassLevel || p.Level == q.Level
}

// MemPriority is the priority tag a storage declaration may carry: a
// single level, an ordered multi-level, or a sentinel.
type MemPriority struct {
	Class  PriorityClass
	Levels []int // one entry for a plain level, several for multi-level
}

func (p *MemPriority) String() string {
	if p == nil {
		return "none"
	}
	switch p.Class {
	case ClassMostLow:
		return "most_low"
	case ClassMostHigh:
		return "most_high"
	default:
		if len(p.Levels) == 1 {
			return fmt.Sprintf("%d", p.Levels[0])
		}
		parts := make([]string, len(p.Levels))
		for i, l := range p.Levels {
			parts[i] = fmt.Sprintf("%d", l)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
}

func (p *MemPriority) Equal(q *MemPriority) bool {
	if p == nil || q == nil {
		return p == q
	}
	if p.Class != q.Class {
		return false
	}
	return p.Class != ClassLevel || slices.Equal(p.Levels, q.Levels)
}

// CanOwn reports whether function type a takes ownership precedence over
// function type b. Both must be function types carrying a priority tag.
//
// Sentinel placement is a language decision: most_high outranks every
// numeric level and most_low loses to every numeric level. Equal tags
// never own each other.
func CanOwn(a, b Type) bool {
	fa, ok := a.(*Function)
	if !ok {
		return false
	}
	fb, ok := b.(*Function)
	if !ok {
		return false
	}
	pa, pb := fa.Priority, fb.Priority
	if pa == nil || pb == nil {
		return false
	}
	return priorityRank(pa) > priorityRank(pb) ||
		(pa.Class == ClassLevel && pb.Class == ClassLevel && pa.Level > pb.Level)
}

// priorityRank orders the classes: most_low < level < most_high.
func priorityRank(p *FuncPriority) int {
	switch p.Class {
	case ClassMostLow:
		return 0
	case ClassMostHigh:
		return 2
	default:
		return 1
	}
}
