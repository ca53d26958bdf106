package core

import (
	"reflect"
	"regexp"
	"strings"

	english "github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags & texts
	rubricIDTag   = "rubricid"
	rubricIDText  = "must be in the format R<number>"
	rubricIDRegex = regexp.MustCompile(`^R[0-9]+$`)

	scheduleIDTag   = "scheduleid"
	scheduleIDText  = "must be in the format SP<number>"
	scheduleIDRegex = regexp.MustCompile(`^SP[0-9]+$`)

	timeDurationTag   = "timeduration"
	timeDurationText  = "must be a valid time duration (e.g., 08:30 AM - 09:00 AM)"
	timeDurationRegex = regexp.MustCompile(`^(0?[1-9]|1[0-2]):([0-5][0-9]) (AM|PM) - (0?[1-9]|1[0-2]):([0-5][0-9]) (AM|PM)$`)

	requiredTag  = "required"
	requiredText = "this field is required"
)

func init() {
	Validate = validator.New()

	en := english.New()
	uni := ut.New(en, en)
	Translator, _ = uni.GetTranslator("en")
	_ = entranslations.RegisterDefaultTranslations(Validate, Translator)

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = Validate.RegisterValidation(rubricIDTag, regexValidation(rubricIDRegex))
	RegisterCustomTranslation(rubricIDTag, rubricIDText)

	_ = Validate.RegisterValidation(scheduleIDTag, regexValidation(scheduleIDRegex))
	RegisterCustomTranslation(scheduleIDTag, scheduleIDText)

	_ = Validate.RegisterValidation(timeDurationTag, regexValidation(timeDurationRegex))
	RegisterCustomTranslation(timeDurationTag, timeDurationText)

	RegisterCustomTranslation(requiredTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = Validate.RegisterTranslation(
		tag, Translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

func regexValidation(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}
