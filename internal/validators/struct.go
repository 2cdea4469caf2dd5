package validators

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/barber-availability/internal/httperr"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct validates v by its `validate` tags and reports the first failing
// field as a ValidationError.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return httperr.Validation(
			"invalid_input",
			fmt.Sprintf("%s: failed %s", strings.ToLower(fe.Field()[:1])+fe.Field()[1:], fe.Tag()),
		)
	}
	return httperr.Validation("invalid_input", err.Error())
}
