package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bookreview/catalog-service/internal/core/domain"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Rule tags shared by the services. String lengths are counted in runes.
const (
	nameRule     = "min=2,max=100"
	emailRule    = "simple_email"
	passwordRule = "min=8,max=50"
	titleRule    = "min=1,max=200"
	authorRule   = "min=1,max=100"
	genreRule    = "genre"
	ratingRule   = "gte=1,lte=5,rating_step"
	commentRule  = "max=1000"
)

// rules wraps go-playground/validator with the catalog's custom tags. Each
// check maps to exactly one domain error so callers can keep a fixed order.
type rules struct {
	v *validator.Validate
}

// customRules are the catalog-specific validator tags.
var customRules = map[string]validator.Func{
	"simple_email": func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	},
	"genre": func(fl validator.FieldLevel) bool {
		return domain.Genre(fl.Field().String()).IsValid()
	},
	"rating_step": func(fl validator.FieldLevel) bool {
		return domain.IsValidRating(fl.Field().Float())
	},
}

// newRules panics when a custom tag fails to register, since every rule
// using it would otherwise be skipped.
func newRules() *rules {
	v := validator.New()
	if err := register(v, customRules); err != nil {
		panic(err)
	}
	return &rules{v: v}
}

func register(v *validator.Validate, custom map[string]validator.Func) error {
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %q rule: %w", tag, err)
		}
	}
	return nil
}

// check returns failure when value does not satisfy tag.
func (r *rules) check(value any, tag string, failure *domain.Error) error {
	if err := r.v.Var(value, tag); err != nil {
		return failure
	}
	return nil
}

func (r *rules) year(year, currentYear int) error {
	return r.check(year, fmt.Sprintf("gte=0,lte=%d", currentYear), domain.ErrInvalidPublishedYear)
}

// present reports whether s is non-nil and non-blank.
func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
