package tokens

import (
	"github.com/golang-jwt/jwt/v5"
)

const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// Claims is the payload shared by access and refresh tokens.
type Claims struct {
	UserID uint   `json:"id_user"`
	Kind   string `json:"typ"`
	jwt.RegisteredClaims
}
