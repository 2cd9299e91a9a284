package domain

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every *ConfigurationError.
var ErrConfiguration = errors.New("invalid augmentation configuration")

// ErrTypeMismatch is matched by every *TypeMismatchError.
var ErrTypeMismatch = errors.New("type mismatch")

// ErrCollaborator is matched by every *CollaboratorError.
var ErrCollaborator = errors.New("collaborator failure")

// ErrRunStateNotFound is returned when no run record exists for an ontology.
var ErrRunStateNotFound = errors.New("run state not found")

// ErrIndividualNotFound is returned by ontologies for unknown individuals.
var ErrIndividualNotFound = errors.New("individual not found")

// ErrPropertyNotDeclared is returned by ontologies for properties missing from the schema.
var ErrPropertyNotDeclared = errors.New("property not declared")

// ConfigurationError reports a malformed directive registration or use.
type ConfigurationError struct {
	Directive string
	Reason    string
	Err       error
}

func (e *ConfigurationError) Error() string {
	msg := "configuration error"
	if e.Directive != "" {
		msg += " in " + e.Directive
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }
func (e *ConfigurationError) Unwrap() error        { return e.Err }

// Configf builds a ConfigurationError for a directive.
func Configf(directive string, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Directive: directive, Reason: fmt.Sprintf(format, args...)}
}

// TypeMismatchError reports a value that does not fit the expected shape.
type TypeMismatchError struct {
	Directive string
	Tuple     Tuple
	Expected  string
	Got       any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch in %s for %s: expected %s, got %T", e.Directive, e.Tuple, e.Expected, e.Got)
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// CollaboratorError wraps a failure of the ontology or the query engine.
// The original error stays reachable through errors.Is and errors.As.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *CollaboratorError) Is(target error) bool { return target == ErrCollaborator }
func (e *CollaboratorError) Unwrap() error        { return e.Err }

// Collaborator wraps err as a CollaboratorError, or returns nil.
// Errors already classified by this package are returned unchanged.
func Collaborator(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrConfiguration) || errors.Is(err, ErrTypeMismatch) || errors.Is(err, ErrCollaborator) {
		return err
	}
	return &CollaboratorError{Op: op, Err: err}
}
