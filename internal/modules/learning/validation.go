package learning

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	types "github.com/cognigen/cognigen-backend/internal/domain/learning"
	"github.com/cognigen/cognigen-backend/internal/platform/apierr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("celltype", func(fl validator.FieldLevel) bool {
		return types.IsCellType(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// validateInput runs the struct tags and turns the first failure into a 400.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apierr.New(http.StatusBadRequest, "invalid_input", err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required", "notblank":
		return apierr.New(http.StatusBadRequest, "invalid_input", fmt.Errorf("%s is required", fe.Field()))
	case "oneof":
		return apierr.New(http.StatusBadRequest, "invalid_input", fmt.Errorf("%s must be one of: %s", fe.Field(), fe.Param()))
	case "min", "max", "gte", "lte":
		return apierr.New(http.StatusBadRequest, "invalid_input", fmt.Errorf("%s is out of range", fe.Field()))
	case "celltype":
		return apierr.New(http.StatusBadRequest, "invalid_cell_type", fmt.Errorf("unsupported cell type %q", fe.Value()))
	}
	return apierr.New(http.StatusBadRequest, "invalid_input", fmt.Errorf("%s is invalid", fe.Field()))
}
