package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/amoylab/toolserver/internal/common/cnst"
)

// Input is an argument bag converted to one of a tool's call shapes
type Input struct {
	kind  Capability
	args  map[string]any
	doc   json.RawMessage
	text  string
	typed any
}

// Kind reports the call shape the input was adapted to
func (in Input) Kind() Capability {
	return in.kind
}

// Adapt converts args into the first call shape sig accepts, trying map,
// document, string, no-argument and typed in that order. The no-argument shape
// only matches an empty bag.
func Adapt(sig Signature, args map[string]any) (Input, error) {
	if args == nil {
		args = map[string]any{}
	}

	switch {
	case sig.Map != nil:
		return Input{kind: AcceptsMap, args: args}, nil

	case sig.Document != nil:
		doc, err := json.Marshal(args)
		if err != nil {
			return Input{}, mismatch(AcceptsDocument, err)
		}
		return Input{kind: AcceptsDocument, doc: doc}, nil

	case sig.String != nil:
		doc, err := json.Marshal(args)
		if err != nil {
			return Input{}, mismatch(AcceptsString, err)
		}
		return Input{kind: AcceptsString, text: string(doc)}, nil

	case sig.None != nil && len(args) == 0:
		return Input{kind: AcceptsNone}, nil

	case sig.Typed != nil:
		doc, err := json.Marshal(args)
		if err != nil {
			return Input{}, mismatch(AcceptsTyped, err)
		}
		v, err := sig.Typed.decode(doc)
		if err != nil {
			return Input{}, mismatch(AcceptsTyped, err)
		}
		return Input{kind: AcceptsTyped, typed: v}, nil
	}

	return Input{}, cnst.ErrAdapterMismatch
}

func mismatch(kind Capability, err error) error {
	return fmt.Errorf("%w: %s arguments: %v", cnst.ErrAdapterMismatch, kind, err)
}

// call runs the callable matching the input's shape
func (s Signature) call(ctx context.Context, in Input) (any, error) {
	switch in.kind {
	case AcceptsMap:
		return s.Map(ctx, in.args)
	case AcceptsDocument:
		return s.Document(ctx, in.doc)
	case AcceptsString:
		return s.String(ctx, in.text)
	case AcceptsNone:
		return s.None(ctx)
	case AcceptsTyped:
		return s.Typed.call(ctx, in.typed)
	}
	return nil, cnst.ErrAdapterMismatch
}
