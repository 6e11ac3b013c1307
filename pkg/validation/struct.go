package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance; validator caches struct
// metadata, so a singleton is the intended usage.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct validates v against its `validate:` struct tags. Used by the
// manifest loader and the prebuilt topology configs.
func Struct(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	return nil
}
