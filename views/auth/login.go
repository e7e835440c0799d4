package auth

import "github.com/zenbild/zenbild-web/views/helpers"

// Status is the outcome of a magic-link request as shown on the login page.
type Status string

const (
	StatusIdle              Status = "idle"
	StatusSent              Status = "sent"
	StatusNeedsConfirmation Status = "needs_confirmation"
	StatusError             Status = "error"
)

// LoginForm is the state rendered by the login and signup pages.
type LoginForm struct {
	Email  string
	Status Status
	// ErrorMessage is shown when Status is StatusError
	ErrorMessage string
	// CallbackError is the e= marker set by /auth/callback
	CallbackError string
	SignUp        bool
}

func (f LoginForm) title() string {
	if f.SignUp {
		return "Crie sua conta no Zenbild"
	}
	return "Entre no Zenbild"
}

var callbackErrors = map[string]string{
	"missing_token":      "O link de acesso está incompleto. Solicite um novo link.",
	"invalid_or_expired": "O link de acesso é inválido ou expirou. Solicite um novo link.",
}

// CallbackErrorMessage returns the banner text for an e= marker, or "" for unknown markers.
func CallbackErrorMessage(code string) string {
	return callbackErrors[code]
}

func submitClasses(status Status) string {
	base := "w-full rounded-xl border p-3 font-medium shadow"
	if status == StatusSent {
		return helpers.Classes(base, "border-emerald-300 bg-emerald-50")
	}
	return base
}
