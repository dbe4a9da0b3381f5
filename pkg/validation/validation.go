package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	pt_translations "github.com/go-playground/validator/v10/translations/pt_BR"

	apperrors "github.com/fbomateus/gestao-tcc/pkg/errors"
)

var (
	// tags próprias
	usernameTag   = "username"
	usernameText  = "{0} aceita apenas letras, números e @/./+/-/_"
	usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)

	requiredTag  = "required"
	requiredText = "Este campo é obrigatório."

	once       sync.Once
	translator ut.Translator
	initErr    error
)

// Init registra nomes de campo, tags próprias e traduções pt_BR no validador do gin.
// Pode ser chamado mais de uma vez.
func Init() error {
	once.Do(func() {
		validate, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			initErr = errors.New("motor de validação do gin não é go-playground/validator")
			return
		}

		locale := pt_BR.New()
		uni := ut.New(locale, locale)
		translator, _ = uni.GetTranslator("pt_BR")

		if err := pt_translations.RegisterDefaultTranslations(validate, translator); err != nil {
			initErr = err
			return
		}

		// nomes de campo vêm da tag json (ou form, em multipart)
		validate.RegisterTagNameFunc(fieldName)

		if err := validate.RegisterValidation(usernameTag, usernameValidation); err != nil {
			initErr = err
			return
		}
		registerTranslation(validate, usernameTag, usernameText, false)
		registerTranslation(validate, requiredTag, requiredText, true)
	})
	return initErr
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

func registerTranslation(validate *validator.Validate, tag, text string, override bool) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

func usernameValidation(fl validator.FieldLevel) bool {
	return usernameRegex.MatchString(fl.Field().String())
}

// Translate converte erros de binding em mensagens por campo.
// Erros que não vêm do validador (JSON malformado etc.) ficam em "__all__".
func Translate(err error) apperrors.FieldErrors {
	_ = Init()

	fields := apperrors.FieldErrors{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			msg := fe.Error()
			if translator != nil {
				msg = fe.Translate(translator)
			}
			fields.Add(fe.Field(), msg)
		}
		return fields
	}

	fields.Add(apperrors.NonField, "requisição inválida")
	return fields
}
