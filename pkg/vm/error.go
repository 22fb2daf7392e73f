package vm

import (
	"errors"
	"fmt"

	"github.com/zurustar/twinscript/pkg/opcode"
)

// ErrorType represents the type of runtime error.
type ErrorType string

const (
	// Fatal to the faulting program only.
	ErrorJumpOutOfBounds ErrorType = "JUMP_OUT_OF_BOUNDS"
	ErrorDecode          ErrorType = "DECODE"
	ErrorMissingActor    ErrorType = "MISSING_ACTOR"
	ErrorNoSwitch        ErrorType = "NO_SWITCH"
	ErrorHandlerPanic    ErrorType = "HANDLER_PANIC"

	// Reported, execution continues.
	ErrorInstructionCap ErrorType = "INSTRUCTION_CAP"
)

var (
	// ErrNoActor is returned by Engine.Load for a negative actor index.
	ErrNoActor = errors.New("no such actor")
	// ErrSnapshotMismatch is returned when a snapshot does not fit the
	// loaded programs.
	ErrSnapshotMismatch = errors.New("snapshot does not match loaded programs")
)

// RuntimeError is a fault raised while a program executes. It carries the
// actor, program kind and byte offset of the faulting instruction.
type RuntimeError struct {
	Type    ErrorType
	Message string
	Actor   int
	Kind    opcode.Kind
	Offset  int
	Command string
	Err     error
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	where := fmt.Sprintf("actor %d %s @%d", e.Actor, e.Kind, e.Offset)
	if e.Command != "" {
		where += " " + e.Command
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s at %s: %v", e.Type, e.Message, where, e.Err)
	}
	return fmt.Sprintf("[%s] %s at %s", e.Type, e.Message, where)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether the error terminates the faulting program.
func (e *RuntimeError) IsFatal() bool {
	return e.Type != ErrorInstructionCap
}

// NewRuntimeError creates a RuntimeError without location; the dispatcher
// fills in actor, kind and offset before reporting it.
func NewRuntimeError(errType ErrorType, message string) *RuntimeError {
	return &RuntimeError{Type: errType, Message: message, Actor: -1, Offset: -1}
}

func newJumpError(target, length int) *RuntimeError {
	return NewRuntimeError(ErrorJumpOutOfBounds, fmt.Sprintf("jump target %d outside script (len %d)", target, length))
}

func newDecodeError(err error) *RuntimeError {
	e := NewRuntimeError(ErrorDecode, "operand decode failed")
	e.Err = err
	return e
}

func newMissingActorError(index int) *RuntimeError {
	return NewRuntimeError(ErrorMissingActor, fmt.Sprintf("actor %d does not exist", index))
}
