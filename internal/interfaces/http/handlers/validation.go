package handlers

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"homeservice.backend/internal/domain/entities"
	domainerrors "homeservice.backend/internal/domain/errors"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags on gin's validator
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("unexpected binding validator engine")
			return
		}
		err = v.RegisterValidation("cnphone", func(fl validator.FieldLevel) bool {
			return entities.ValidPhone(fl.Field().String())
		})
	})
	return err
}

// bindError turns a binding failure into the domain error the client sees
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "cnphone" {
				return domainerrors.ErrInvalidPhone
			}
		}
		fe := verrs[0]
		return domainerrors.BadRequest(fmt.Sprintf("field %s failed on %s", fe.Field(), fe.Tag()))
	}
	return domainerrors.BadRequest("malformed request body")
}
