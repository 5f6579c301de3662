package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Issue is a single field-level validation failure.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when input violates its contract.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, is.Field+": "+is.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidationError reports whether err is (or wraps) a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// messages maps "<field>.<tag>" to the message reported to callers.
var messages = map[string]string{
	"text.min":        "Todo text cannot be empty",
	"text.max":        "Todo text is too long",
	"id.uuid":         "Invalid todo ID",
	"limit.min":       "Number must be greater than 0",
	"limit.max":       "Number must be less than or equal to 100",
	"offset.min":      "Number must be greater than or equal to 0",
	"userId.required": "Required",
}

// Validator enforces the operation contracts.
type Validator struct {
	v *validator.Validate
}

// NewValidator returns a Validator reporting fields by their JSON names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Hex digits in either case; only the hyphenated 36-character form.
	_ = v.RegisterValidation("uuid", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != 36 {
			return false
		}
		_, err := uuid.Parse(s)
		return err == nil
	})
	return &Validator{v: v}
}

// Create validates todos.create input.
func (s *Validator) Create(in CreateInput) (CreateInput, error) {
	return in, s.check(&in)
}

// Update validates todos.update input.
func (s *Validator) Update(in UpdateInput) (UpdateInput, error) {
	return in, s.check(&in)
}

// Get validates todos.get input.
func (s *Validator) Get(in GetInput) (GetInput, error) {
	return in, s.check(&in)
}

// Delete validates todos.delete input.
func (s *Validator) Delete(in DeleteInput) (DeleteInput, error) {
	return in, s.check(&in)
}

// List validates todos.list input and applies the paging defaults.
func (s *Validator) List(in ListInput) (ListQuery, error) {
	if err := s.check(&in); err != nil {
		return ListQuery{}, err
	}
	q := ListQuery{Completed: in.Completed, Limit: DefaultListLimit}
	if in.Limit != nil {
		q.Limit = *in.Limit
	}
	if in.Offset != nil {
		q.Offset = *in.Offset
	}
	return q, nil
}

// Todo validates a todo output.
func (s *Validator) Todo(t Todo) error {
	return s.check(&t)
}

func (s *Validator) check(v any) error {
	err := s.v.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	ve := &ValidationError{Issues: make([]Issue, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		ve.Issues = append(ve.Issues, Issue{Field: fe.Field(), Message: message(fe)})
	}
	return ve
}

func message(fe validator.FieldError) string {
	if m, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return m
	}
	if fe.Param() != "" {
		return fmt.Sprintf("failed on %s=%s", fe.Tag(), fe.Param())
	}
	return "failed on " + fe.Tag()
}
