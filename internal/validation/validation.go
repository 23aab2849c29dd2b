// Package validation turns raw task and user payloads into typed input or a
// field-by-field error map.
package validation

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"

	"github.com/go-playground/validator/v10"
)

const maxTextLen = 255

// dateLayouts are tried in order when coercing a due date string.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		e, ok := fl.Field().Interface().(interface{ Valid() bool })
		return ok && e.Valid()
	})
	_ = v.RegisterValidation("datestring", func(fl validator.FieldLevel) bool {
		_, ok := ParseDate(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		n, ok := fl.Field().Interface().(Number)
		return ok && n.Finite()
	})
	return v
}

// ParseDate coerces s into a UTC time using the accepted layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

type TaskPayload struct {
	Title       string            `json:"title" validate:"required,max=255"`
	Description string            `json:"description" validate:"required"`
	Status      models.Status     `json:"status" validate:"required,enum"`
	Category    models.Category   `json:"category" validate:"required,enum"`
	DueDate     string            `json:"dueDate" validate:"omitempty,datestring"`
	Priority    models.Priority   `json:"priority" validate:"required,enum"`
	Importance  models.Importance `json:"importance" validate:"required,enum"`
	UserID      Number            `json:"userId" validate:"finite"`
}

type TaskInput struct {
	Title       string
	Description string
	Status      models.Status
	Category    models.Category
	DueDate     *time.Time
	Priority    models.Priority
	Importance  models.Importance
	UserID      Number
}

type UserPayload struct {
	FName       string          `json:"fname" validate:"required,max=255"`
	LName       string          `json:"lname" validate:"required,max=255"`
	Email       string          `json:"email" validate:"required,max=255"`
	Description string          `json:"description" validate:"omitempty,max=255"`
	CreatedAt   json.RawMessage `json:"createdAt,omitempty"`
	UpdatedAt   json.RawMessage `json:"updatedAt,omitempty"`
}

type UserInput struct {
	FName       string
	LName       string
	Email       string
	Description string
}

// DecodeTaskPayload unmarshals body. Type mismatches are reported per field
// alongside the rule violations found later; malformed JSON is returned as
// errors.ErrBadRequest.
func DecodeTaskPayload(body []byte) (TaskPayload, errors.FieldErrors, error) {
	var p TaskPayload
	typeErrs, err := decode(body, &p)
	return p, typeErrs, err
}

func DecodeUserPayload(body []byte) (UserPayload, errors.FieldErrors, error) {
	var p UserPayload
	typeErrs, err := decode(body, &p)
	return p, typeErrs, err
}

func decode(body []byte, dst any) (errors.FieldErrors, error) {
	fe := errors.FieldErrors{}
	if len(strings.TrimSpace(string(body))) == 0 {
		return fe, fmt.Errorf("%w: empty body", errors.ErrBadRequest)
	}
	err := json.Unmarshal(body, dst)
	var typeErr *json.UnmarshalTypeError
	switch {
	case err == nil:
	case stderrors.As(err, &typeErr) && typeErr.Field != "":
		fe.Add(typeErr.Field, "Expected "+jsonKind(typeErr.Type))
	default:
		return fe, fmt.Errorf("%w: %v", errors.ErrBadRequest, err)
	}
	return fe, nil
}

func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int64:
		return "number"
	case reflect.Bool:
		return "boolean"
	}
	return t.Kind().String()
}

// Task validates p, merging any decode-time type errors. Every failing field
// is reported.
func Task(p TaskPayload, typeErrs errors.FieldErrors) (*TaskInput, errors.FieldErrors) {
	fe := check(p, typeErrs)
	if len(fe) > 0 {
		return nil, fe
	}

	in := &TaskInput{
		Title:       p.Title,
		Description: p.Description,
		Status:      p.Status,
		Category:    p.Category,
		Priority:    p.Priority,
		Importance:  p.Importance,
		UserID:      p.UserID,
	}
	if strings.TrimSpace(p.DueDate) != "" {
		due, _ := ParseDate(p.DueDate)
		in.DueDate = &due
	}
	return in, nil
}

// User validates p against the shared user schema.
func User(p UserPayload, typeErrs errors.FieldErrors) (*UserInput, errors.FieldErrors) {
	fe := check(p, typeErrs)
	if len(fe) > 0 {
		return nil, fe
	}
	return &UserInput{
		FName:       p.FName,
		LName:       p.LName,
		Email:       p.Email,
		Description: p.Description,
	}, nil
}

func check(payload any, typeErrs errors.FieldErrors) errors.FieldErrors {
	fe := errors.FieldErrors{}
	for field, msgs := range typeErrs {
		fe[field] = append(fe[field], msgs...)
	}

	err := validate.Struct(payload)
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return fe
	}
	for _, verr := range verrs {
		field := verr.Field()
		// the zero value left by a type mismatch would only repeat the error
		if typeErrs.Has(field) {
			continue
		}
		fe.Add(field, message(verr))
	}
	return fe
}

var labels = map[string]string{
	"title":       "Title",
	"description": "Description",
	"status":      "Status",
	"category":    "Category",
	"dueDate":     "Due date",
	"priority":    "Priority",
	"importance":  "Importance",
	"userId":      "User ID",
	"fname":       "First name",
	"lname":       "Last name",
	"email":       "Email",
}

func message(verr validator.FieldError) string {
	field := verr.Field()
	if field == "category" {
		return "Category is required"
	}
	label, ok := labels[field]
	if !ok {
		label = field
	}

	switch verr.Tag() {
	case "required":
		return label + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, verr.Param())
	case "enum":
		return fmt.Sprintf("%s must be one of %s", label, strings.Join(enumValues(verr.Value()), ", "))
	case "datestring":
		return label + " must be a valid date"
	case "finite":
		return label + " must be a number"
	}
	return label + " is invalid"
}

func enumValues(v any) []string {
	var out []string
	switch v.(type) {
	case models.Status:
		for _, s := range models.Statuses() {
			out = append(out, string(s))
		}
	case models.Category:
		for _, c := range models.Categories() {
			out = append(out, string(c))
		}
	case models.Priority:
		for _, p := range models.Priorities() {
			out = append(out, string(p))
		}
	case models.Importance:
		for _, i := range models.Importances() {
			out = append(out, string(i))
		}
	}
	return out
}
