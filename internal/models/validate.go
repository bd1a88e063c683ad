package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// A record is only usable if it can be told apart from its neighbours
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		u := sl.Current().Interface().(User)
		if u.ID == 0 && u.PK == 0 && u.UUID == "" {
			sl.ReportError(u.ID, "ID", "id", "identified", "")
		}
	}, User{})

	return v
}

// ValidateUser checks a single user record
func ValidateUser(u *User) error {
	if u == nil {
		return errors.New("user record is null")
	}
	if err := validate.Struct(u); err != nil {
		return describe(err)
	}
	return nil
}

// ValidateUsers checks every record in a user list
func ValidateUsers(users []User) error {
	for i := range users {
		if err := ValidateUser(&users[i]); err != nil {
			return fmt.Errorf("users[%d]: %w", i, err)
		}
	}
	return nil
}

// ValidateProfile checks a public profile including its adventures and collections
func ValidateProfile(p *PublicProfile) error {
	if p == nil {
		return errors.New("profile is null")
	}
	if err := ValidateUser(&p.User); err != nil {
		return err
	}
	if err := validate.Struct(p); err != nil {
		return describe(err)
	}
	return nil
}

// describe flattens validator errors into a single readable message
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return errors.New(strings.Join(parts, "; "))
}
