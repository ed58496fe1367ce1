package funcs

import (
	"unicode/utf8"

	"github.com/benchgen/tabgen/internal/plan"
	"github.com/benchgen/tabgen/internal/value"
)

func registerString(r *Registry) {
	r.Register(&Function{name: "substring", minArity: 2, maxArity: 3, fn: fnSubstring})
	r.Register(&Function{name: "overlay", minArity: 3, maxArity: 4, fn: fnOverlay})
	r.Register(&Function{name: "octet_length", minArity: 1, maxArity: 1, fn: fnOctetLength})
	r.Register(&Function{name: "char_length", minArity: 1, maxArity: 1, fn: fnCharLength})
	r.Register(&Function{name: "character_length", minArity: 1, maxArity: 1, fn: fnCharLength})
}

func asStringArg(name string, v value.Value) (string, bool) {
	if v.IsNull() {
		return "", false
	}
	if v.Tag() == value.TagBytes {
		return string(v.AsBytes()), true
	}
	return v.AsString(), true
}

// fnSubstring implements substring(str, start[, length]), 1-based,
// operating on Unicode code points (char_length semantics), not bytes.
func fnSubstring(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	s, ok := asStringArg("substring", args[0])
	if !ok {
		return value.Null, nil
	}
	start, err := asInt("substring", args[1])
	if err != nil {
		return value.Null, err
	}
	runes := []rune(s)
	n := int64(len(runes))

	from := start - 1
	length := n - from
	if len(args) == 3 {
		l, err := asInt("substring", args[2])
		if err != nil {
			return value.Null, err
		}
		length = l
	}
	if from < 0 {
		length += from
		from = 0
	}
	if length <= 0 || from >= n {
		return value.Str(""), nil
	}
	to := from + length
	if to > n {
		to = n
	}
	return value.Str(string(runes[from:to])), nil
}

// fnOverlay implements overlay(str, replacement, start[, length]): replaces
// length characters (default len(replacement)) starting at 1-based start.
func fnOverlay(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	s, ok := asStringArg("overlay", args[0])
	if !ok {
		return value.Null, nil
	}
	repl, ok := asStringArg("overlay", args[1])
	if !ok {
		return value.Null, nil
	}
	start, err := asInt("overlay", args[2])
	if err != nil {
		return value.Null, err
	}
	runes := []rune(s)
	n := int64(len(runes))
	length := int64(utf8.RuneCountInString(repl))
	if len(args) == 4 {
		l, err := asInt("overlay", args[3])
		if err != nil {
			return value.Null, err
		}
		length = l
	}
	from := start - 1
	if from < 0 {
		from = 0
	}
	if from > n {
		from = n
	}
	to := from + length
	if to < from {
		to = from
	}
	if to > n {
		to = n
	}
	var out []rune
	out = append(out, runes[:from]...)
	out = append(out, []rune(repl)...)
	out = append(out, runes[to:]...)
	return value.Str(string(out)), nil
}

func fnOctetLength(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	if args[0].IsNull() {
		return value.Null, nil
	}
	if args[0].Tag() == value.TagBytes {
		return value.Int(int64(len(args[0].AsBytes()))), nil
	}
	return value.Int(int64(len(args[0].AsString()))), nil
}

func fnCharLength(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	s, ok := asStringArg("char_length", args[0])
	if !ok {
		return value.Null, nil
	}
	return value.Int(int64(utf8.RuneCountInString(s))), nil
}
