package validate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/classroom-accounts/internal/domain"
	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator. Any custom registrations must
// happen in init() before the first call to Struct.
var v = validator.New()

func init() {
	// bcrypt truncates at 72 bytes; max= counts runes.
	if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}
}

func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// Struct validates s using its validate tags. Failures are reported as a
// single message wrapping domain.ErrBadRequest.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%s: %w", strings.Join(msgs, "; "), domain.ErrBadRequest)
}
