/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package types

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidArgument is matched by every request validation failure.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDataAccess is matched by every failure of the underlying store.
	ErrDataAccess = errors.New("data access failure")
)

// FieldError describes why a single input field was rejected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// InvalidArgumentError aggregates field errors and unwraps to ErrInvalidArgument.
type InvalidArgumentError struct {
	Fields []FieldError
}

// NewInvalidArgument creates an InvalidArgumentError for a single field.
func NewInvalidArgument(field, message string) *InvalidArgumentError {
	return &InvalidArgumentError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *InvalidArgumentError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidArgument.Error()
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return fmt.Sprintf("%s: %s", ErrInvalidArgument, strings.Join(parts, "; "))
}

func (e *InvalidArgumentError) Unwrap() error { return ErrInvalidArgument }

// FieldErrors extracts field errors from err, or nil.
func FieldErrors(err error) []FieldError {
	var iae *InvalidArgumentError
	if errors.As(err, &iae) {
		return iae.Fields
	}
	return nil
}

// DataAccessError wraps a failed content or count query. The store's error
// is kept as is and reachable through errors.As/errors.Unwrap.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrDataAccess, e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

func (e *DataAccessError) Is(target error) bool { return target == ErrDataAccess }

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidateStruct runs the struct's validate tags and converts failures into
// an InvalidArgumentError.
func ValidateStruct(v interface{}) error {
	validateOnce.Do(func() { validate = validator.New(validator.WithRequiredStructEnabled()) })
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &InvalidArgumentError{Fields: []FieldError{{Field: "request", Message: err.Error()}}}
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   lowerFirst(fe.Field()),
			Message: describeTag(fe),
		})
	}
	return &InvalidArgumentError{Fields: fields}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	default:
		return "failed on " + fe.Tag()
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
