// Package validation configures gin's request validator: the custom rules
// request DTOs use and localized messages for failed checks.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/fr"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	frtranslations "github.com/go-playground/validator/v10/translations/fr"
	"golang.org/x/text/language"

	"needsnet.app/api/common/id"
)

var (
	setupOnce sync.Once
	setupErr  error
	uni       *ut.UniversalTranslator
)

// ruleMessages holds the text of each custom rule per locale.
var ruleMessages = map[string]map[string]string{
	"objectid": {
		"en": "{0} must be a valid identifier",
		"fr": "{0} doit être un identifiant valide",
	},
	"notblank": {
		"en": "{0} must not be blank",
		"fr": "{0} ne doit pas être vide",
	},
}

// Setup registers the custom rules and translations on gin's validator.
// It is safe to call more than once.
func Setup() error {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			setupErr = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		setupErr = register(v)
	})
	return setupErr
}

func register(v *validator.Validate) error {
	v.RegisterTagNameFunc(fieldName)

	if err := v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return id.Valid(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("register objectid rule: %w", err)
	}
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return fmt.Errorf("register notblank rule: %w", err)
	}

	english := en.New()
	uni = ut.New(english, english, fr.New())

	enTrans, _ := uni.GetTranslator("en")
	if err := entranslations.RegisterDefaultTranslations(v, enTrans); err != nil {
		return fmt.Errorf("register en translations: %w", err)
	}
	frTrans, _ := uni.GetTranslator("fr")
	if err := frtranslations.RegisterDefaultTranslations(v, frTrans); err != nil {
		return fmt.Errorf("register fr translations: %w", err)
	}

	for tag, messages := range ruleMessages {
		for locale, text := range messages {
			trans, _ := uni.GetTranslator(locale)
			if err := registerRuleTranslation(v, trans, tag, text); err != nil {
				return fmt.Errorf("register %s translation %s: %w", tag, locale, err)
			}
		}
	}

	return nil
}

func registerRuleTranslation(v *validator.Validate, trans ut.Translator, tag, text string) error {
	return v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error {
			return t.Add(tag, text, true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		})
}

// fieldName reports fields by their wire name so messages match the payload.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Translate turns a binding error into a client message in the language
// asked for by acceptLanguage. Unsupported languages fall back to English.
func Translate(err error, acceptLanguage string) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		trans := translator(acceptLanguage)
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			if trans != nil {
				msgs = append(msgs, fe.Translate(trans))
			} else {
				msgs = append(msgs, fe.Error())
			}
		}
		return strings.Join(msgs, "; ")
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("%s has the wrong type", typeErr.Field)
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return "request body is not valid JSON"
	}

	if errors.Is(err, io.EOF) {
		return "request body is required"
	}

	return "invalid request"
}

func translator(acceptLanguage string) ut.Translator {
	if uni == nil {
		return nil
	}

	tags, _, _ := language.ParseAcceptLanguage(acceptLanguage)
	locales := make([]string, 0, len(tags))
	for _, tag := range tags {
		base, _ := tag.Base()
		locales = append(locales, base.String())
	}

	trans, _ := uni.FindTranslator(locales...)
	return trans
}
