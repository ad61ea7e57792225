package mangapark

import (
	"fmt"
	"time"

	"github.com/dop251/goja"

	"github.com/diogovalentte/mangapark-adapter/src/errordefs"
)

// ScriptEvaluator runs a JavaScript program and returns the value of its last expression as text.
// Errors wrap errordefs.ErrScriptEvaluation.
type ScriptEvaluator interface {
	Evaluate(program string) (string, error)
}

// GojaEvaluator evaluates programs with the goja engine.
// Every program runs in a new runtime without filesystem or network access.
type GojaEvaluator struct {
	// timeout of 0 means no timeout
	timeout time.Duration
}

// NewGojaEvaluator creates a GojaEvaluator that interrupts programs running for longer than timeout
func NewGojaEvaluator(timeout time.Duration) *GojaEvaluator {
	return &GojaEvaluator{timeout: timeout}
}

func (e *GojaEvaluator) Evaluate(program string) (result string, err error) {
	vm := goja.New()
	if e.timeout > 0 {
		timer := time.AfterFunc(e.timeout, func() {
			vm.Interrupt(fmt.Sprintf("program running for more than %s", e.timeout))
		})
		defer timer.Stop()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errordefs.ErrScriptEvaluation, r)
		}
	}()

	value, err := vm.RunString(program)
	if err != nil {
		return "", fmt.Errorf("%w: %s", errordefs.ErrScriptEvaluation, err)
	}
	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		return "", fmt.Errorf("%w: program has no result", errordefs.ErrScriptEvaluation)
	}

	return value.String(), nil
}
