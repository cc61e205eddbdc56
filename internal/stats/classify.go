package stats

import "dexboard/internal/model"

// Kind is the classified kind of an operation.
type Kind int

const (
	KindUnknown Kind = iota
	KindSwap
	KindAdd
	KindRemove
)

// Classify determines the kind of an operation. An explicit operation type
// tag wins exactly; untagged operations fall back to the amount-sign
// heuristic: strictly opposite signs mean a swap, both amounts >= 0 an add,
// both <= 0 a remove, checked in that order. Both amounts zero therefore
// reads as an add, and a swap recorded with same-signed amounts is
// misclassified.
func Classify(op model.Operation) Kind {
	if op.Type != nil {
		switch op.Type.Name {
		case model.OperationSwap:
			return KindSwap
		case model.OperationAdd:
			return KindAdd
		case model.OperationRemove:
			return KindRemove
		default:
			return KindUnknown
		}
	}

	switch {
	case op.Token0Amount > 0 && op.Token1Amount < 0,
		op.Token0Amount < 0 && op.Token1Amount > 0:
		return KindSwap
	case op.Token0Amount >= 0 && op.Token1Amount >= 0:
		return KindAdd
	case op.Token0Amount <= 0 && op.Token1Amount <= 0:
		return KindRemove
	default:
		return KindUnknown
	}
}
