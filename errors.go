package persist

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNilStore = errors.New("persist: store is required")

var ErrNilBackend = errors.New("persist: storage backend is required")

// CodecError wraps a serialization failure with the codec operation that
// produced it.
type CodecError struct {
	Op  string
	Err error
}

func (e *CodecError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("persist: codec %s: %v", e.Op, e.Err)
}

func (e *CodecError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ConditionError captures condition-engine metadata alongside the
// originating error.
type ConditionError struct {
	Engine string
	Expr   string
	Key    string
	Err    error
}

func (e *ConditionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("persist: %s condition %s key=%s: %v", e.Engine, describeExpression(e.Expr), e.Key, e.Err)
}

func (e *ConditionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEngineError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var condErr *ConditionError
	if errors.As(err, &condErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "persist:") {
		return err
	}
	return fmt.Errorf("persist: %s condition: %w", engine, err)
}

func wrapConditionError(engine, expr, key string, err error) error {
	if err == nil {
		return nil
	}

	var condErr *ConditionError
	if errors.As(err, &condErr) {
		if condErr.Engine == "" {
			condErr.Engine = engine
		}
		if condErr.Expr == "" {
			condErr.Expr = expr
		}
		if condErr.Key == "" {
			condErr.Key = key
		}
		return condErr
	}

	return &ConditionError{
		Engine: engine,
		Expr:   expr,
		Key:    key,
		Err:    err,
	}
}
