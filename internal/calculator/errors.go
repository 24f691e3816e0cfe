package calculator

import "errors"

// Kind classifies which evaluation stage rejected an expression.
type Kind int

const (
	KindCharacterSet Kind = iota + 1
	KindOperatorSequence
	KindEvaluation
)

// Sentinels for errors.Is matching against an *EvalError.
var (
	ErrCharacterSet     = errors.New("character set violation")
	ErrOperatorSequence = errors.New("operator sequence violation")
	ErrEvaluation       = errors.New("evaluation error")
)

// String returns the metric/log label for k.
func (k Kind) String() string {
	switch k {
	case KindCharacterSet:
		return "character_set"
	case KindOperatorSequence:
		return "operator_sequence"
	case KindEvaluation:
		return "evaluation"
	default:
		return "unknown"
	}
}

// Message is the client-facing reason for k.
func (k Kind) Message() string {
	switch k {
	case KindCharacterSet:
		return "Unsafe characters in expression"
	case KindOperatorSequence:
		return "Invalid operator sequence"
	default:
		return "Evaluation error"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindCharacterSet:
		return ErrCharacterSet
	case KindOperatorSequence:
		return ErrOperatorSequence
	default:
		return ErrEvaluation
	}
}

// EvalError is returned by Evaluate and Validate. Error() only ever yields
// the human-readable Kind message; the underlying cause is kept in Err for
// logging and is never sent to clients.
type EvalError struct {
	Kind Kind
	Err  error
}

func (e *EvalError) Error() string {
	return e.Kind.Message()
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

func (e *EvalError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// KindOf reports the Kind carried by err, or 0 when err is not an *EvalError.
func KindOf(err error) Kind {
	var evalErr *EvalError
	if errors.As(err, &evalErr) {
		return evalErr.Kind
	}
	return 0
}
