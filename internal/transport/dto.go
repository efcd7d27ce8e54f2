package transport

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/Skotchmaster/card_collection/internal/domain"
)

const (
	MsgValidation = "Données manquantes ou invalides"

	MsgLoginOK      = "Connexion réussie"
	MsgLoginBad     = "Identifiants incorrects"
	MsgLoginFailed  = "Une erreur est survenue lors de la connexion"
	MsgRefreshOK    = "Token mis à jour"
	MsgRefreshBad   = "Token non valide"
	MsgRefreshError = "Une erreur est survenue lors de la mise à jour du token"
	MsgLogoutOK     = "Déconnexion réussie"
	MsgLogoutFailed = "Une erreur est survenue lors de la déconnexion"
	MsgProfileOK    = "Utilisateur récupéré avec succès"
	MsgProfileError = "Une erreur est survenue lors de la récupération de l'utilisateur"

	MsgTokenMissing = "Token manquant"
	MsgAuthError    = "Une erreur est survenue lors de l'authentification"
	MsgUserNotFound = "Utilisateur non trouvé"
	MsgForbidden    = "Accès non autorisé"
)

const passwordSpecials = "@$!%*?&"

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"msg"`
}

// ValidationError is a rejected request body. It matches
// domain.ErrValidation and Respond renders it as its field list.
type ValidationError struct {
	Fields []FieldError
}

func Invalid(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return fmt.Sprintf("%s: %s", domain.ErrValidation, strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error { return domain.ErrValidation }

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Normalize trims the username in place, then reports every invalid field.
func (r *LoginRequest) Normalize() []FieldError {
	r.Username = strings.TrimSpace(r.Username)

	var errs []FieldError
	switch {
	case r.Username == "":
		errs = append(errs, FieldError{Field: "username", Message: "Le nom d'utilisateur est requis"})
	case len([]rune(r.Username)) < 3:
		errs = append(errs, FieldError{Field: "username", Message: "Le nom d'utilisateur doit avoir au moins 3 caractères"})
	}

	switch {
	case r.Password == "":
		errs = append(errs, FieldError{Field: "password", Message: "Le mot de passe est requis"})
	case !StrongPassword(r.Password):
		errs = append(errs, FieldError{Field: "password", Message: "Le mot de passe doit contenir au moins une lettre majuscule, une lettre minuscule, un chiffre, un caractère spécial et avoir au moins 8 caractères"})
	}
	return errs
}

func (r *RefreshRequest) Normalize() []FieldError {
	r.RefreshToken = strings.TrimSpace(r.RefreshToken)
	if r.RefreshToken == "" {
		return []FieldError{{Field: "refreshToken", Message: "Le token de rafraîchissement est requis"}}
	}
	return nil
}

// StrongPassword requires at least 8 characters drawn from ASCII letters,
// digits and @$!%*?&, with one of each class.
func StrongPassword(pw string) bool {
	if len(pw) < 8 {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range pw {
		switch {
		case r > unicode.MaxASCII:
			return false
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}
