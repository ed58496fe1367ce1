package funcs

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/benchgen/tabgen/internal/plan"
	"github.com/benchgen/tabgen/internal/value"
)

func registerEncoding(r *Registry) {
	r.Register(&Function{name: "to_hex", minArity: 1, maxArity: 1, fn: fnToHex})
	r.Register(&Function{name: "from_hex", minArity: 1, maxArity: 1, fn: fnFromHex})
	r.Register(&Function{name: "to_base64", minArity: 1, maxArity: 1, fn: fnToBase64})
	r.Register(&Function{name: "from_base64", minArity: 1, maxArity: 1, fn: fnFromBase64})
	r.Register(&Function{name: "to_base64url", minArity: 1, maxArity: 1, fn: fnToBase64URL})
	r.Register(&Function{name: "from_base64url", minArity: 1, maxArity: 1, fn: fnFromBase64URL})
}

func asBytesArg(v value.Value) ([]byte, bool) {
	if v.IsNull() {
		return nil, false
	}
	if v.Tag() == value.TagBytes {
		return v.AsBytes(), true
	}
	return []byte(v.AsString()), true
}

func fnToHex(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	b, ok := asBytesArg(args[0])
	if !ok {
		return value.Null, nil
	}
	return value.Str(strings.ToUpper(hex.EncodeToString(b))), nil
}

func fnFromHex(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	if args[0].IsNull() {
		return value.Null, nil
	}
	b, err := hex.DecodeString(args[0].AsString())
	if err != nil {
		return value.Null, scalarErr("from_hex", "%v", err)
	}
	return value.Bytes(b), nil
}

func fnToBase64(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	b, ok := asBytesArg(args[0])
	if !ok {
		return value.Null, nil
	}
	return value.Str(base64.StdEncoding.EncodeToString(b)), nil
}

func fnFromBase64(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	if args[0].IsNull() {
		return value.Null, nil
	}
	b, err := base64.StdEncoding.DecodeString(args[0].AsString())
	if err != nil {
		return value.Null, scalarErr("from_base64", "%v", err)
	}
	return value.Bytes(b), nil
}

func fnToBase64URL(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	b, ok := asBytesArg(args[0])
	if !ok {
		return value.Null, nil
	}
	return value.Str(base64.URLEncoding.EncodeToString(b)), nil
}

func fnFromBase64URL(ctx *plan.Ctx, args []value.Value) (value.Value, error) {
	if args[0].IsNull() {
		return value.Null, nil
	}
	b, err := base64.URLEncoding.DecodeString(args[0].AsString())
	if err != nil {
		return value.Null, scalarErr("from_base64url", "%v", err)
	}
	return value.Bytes(b), nil
}
