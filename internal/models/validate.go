// internal/models/validate.go
package models

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

func (a *Answer) Validate() error {
	return validatorInstance().Struct(a)
}

func (a *Availability) Validate() error {
	return validatorInstance().Struct(a)
}

func (a *InterviewAttempt) Validate() error {
	return validatorInstance().Struct(a)
}

func (a *Assessment) Validate() error {
	return validatorInstance().Struct(a)
}
