package models

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator"
	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

const mysqlDuplicateEntry = 1062

var (
	ErrValidation          = errors.New("validation failed")
	ErrDuplicateNationalID = errors.New("a patient with the given national id already exists")
	ErrPatientNotFound     = errors.New("patient does not exist")
)

var validate = newValidator()

// ValidationError lists the fields of a record that failed validation.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields []string
	cause  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: invalid fields [%s]", ErrValidation, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.cause
}

func newValidator() *validator.Validate {
	v := validator.New()

	// Report json names so errors line up with what callers send
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

func validateRecord(record interface{}) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		fields = append(fields, fieldErr.Field())
	}

	return &ValidationError{Fields: fields, cause: err}
}

func isUniqueViolation(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// translateError maps a failed unit of work onto the package's sentinel errors,
// wrapping anything else with 'op'.
func translateError(err error, op string) error {
	switch {
	case errors.Is(err, ErrDuplicateNationalID), errors.Is(err, ErrPatientNotFound):
		return err
	case isUniqueViolation(err):
		return ErrDuplicateNationalID
	default:
		return errors.Wrap(err, op)
	}
}
