// Package validation wraps a shared go-playground validator instance.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	// Use a singleton validator instance to avoid recreating it
	validatorInstance *validator.Validate
	validatorOnce     sync.Once
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInstance = validator.New()

		// report field names the way they appear in form definition files
		validatorInstance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})

	return validatorInstance
}

// IsEmail reports whether value is a syntactically valid email address.
func IsEmail(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	return getValidator().Var(value, "email") == nil
}

// Struct validates a tagged struct and flattens failures into one error
// listing every offending field path.
func Struct(input any) error {
	err := getValidator().Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		namespace := fe.Namespace()
		// drop the root struct name, e.g. "Form.fields[0].id" -> "fields[0].id"
		if idx := strings.Index(namespace, "."); idx >= 0 {
			namespace = namespace[idx+1:]
		}
		problems = append(problems, fmt.Sprintf("%s failed %q", namespace, fe.Tag()))
	}
	return errors.New(strings.Join(problems, "; "))
}
