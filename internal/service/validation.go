package service

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/empproxy/empproxy/internal/model"
)

// ErrValidation matches every *ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError lists invalid fields keyed by their JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, e.Fields[name])
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
}

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Validator checks request shapes before they reach the upstream.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewValidator builds a validator with English messages and the notblank rule.
func NewValidator() (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("register translations: %w", err)
	}

	if err := validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		return nil, fmt.Errorf("register notblank: %w", err)
	}
	err := validate.RegisterTranslation("notblank", trans,
		func(t ut.Translator) error {
			return t.Add("notblank", "{0} cannot be blank", true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T("notblank", fe.Field())
			return msg
		},
	)
	if err != nil {
		return nil, fmt.Errorf("register notblank translation: %w", err)
	}

	return &Validator{validate: validate, translator: trans}, nil
}

// ValidateCreate validates a create request. It returns *ValidationError on failure.
func (v *Validator) ValidateCreate(input model.CreateEmployeeInput) error {
	err := v.validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate create request: %w", err)
	}

	verr := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		if _, seen := verr.Fields[fe.Field()]; !seen {
			verr.Fields[fe.Field()] = fe.Translate(v.translator)
		}
	}
	return verr
}
