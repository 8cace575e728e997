package importer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/go-playground/validator/v10"
)

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("exam_type", func(fl validator.FieldLevel) bool {
		return domain.ValidExamTypes[fl.Field().String()]
	})
	_ = v.RegisterValidation("skill", func(fl validator.FieldLevel) bool {
		return domain.ValidSkills[fl.Field().String()]
	})
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError aggregates every problem found in an upload.
type ValidationError struct {
	Errs []error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(e.Errs))
	for _, err := range e.Errs {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Validate checks struct tags and the rules tags cannot express. It returns
// every problem found.
func Validate(items []domain.Exercise) []error {
	var errs []error
	seen := make(map[string]bool, len(items))

	for i, ex := range items {
		label := fmt.Sprintf("exercises[%d]", i)
		if ex.ID != "" {
			label = fmt.Sprintf("exercise %q", ex.ID)
		}

		if err := structValidator.Struct(ex); err != nil {
			var fieldErrs validator.ValidationErrors
			if errors.As(err, &fieldErrs) {
				for _, fe := range fieldErrs {
					errs = append(errs, fmt.Errorf("%s: %s fails %q (value %v)", label, fieldPath(fe), fe.Tag(), fe.Value()))
				}
			} else {
				errs = append(errs, fmt.Errorf("%s: %w", label, err))
			}
		}

		key := string(ex.Type) + "/" + ex.ID
		if seen[key] {
			errs = append(errs, fmt.Errorf("%s: duplicate id in upload", label))
		}
		seen[key] = true

		errs = append(errs, validateQuestions(label, ex.Questions)...)
	}
	return errs
}

func validateQuestions(label string, qs []domain.Question) []error {
	var errs []error
	for i, q := range qs {
		if q.Answer.IsZero() {
			errs = append(errs, fmt.Errorf("%s: questions[%d] has no answer", label, i))
			continue
		}
		if q.HasOptions() && q.Answer.Index != nil {
			if idx := *q.Answer.Index; idx < 0 || idx >= len(q.Options) {
				errs = append(errs, fmt.Errorf("%s: questions[%d] answer index %d out of range", label, i, idx))
			}
		}
	}
	return errs
}

// fieldPath strips the root struct name from a validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
