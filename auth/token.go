// Package auth parses caller-issued identity tokens at the transport edge.
// The collaboration core never authenticates: the embedding system issues the
// token, this package only extracts the already-authenticated User from it.
package auth

import (
	"collab-lab/domain"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims is the identity payload carried inside the JWT.
type IdentityClaims struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	AvatarRef   string `json:"avatarRef,omitempty"`
	jwt.RegisteredClaims
}

// TokenParser validates HS256 signatures with the shared key from config.
type TokenParser struct {
	key []byte
}

func NewTokenParser(key []byte) TokenParser {
	return TokenParser{key: key}
}

// Parse validates the signature and expiration and returns the identity as a
// domain User. Color and presence fields are assigned later, per membership.
func (p TokenParser) Parse(tokenString string) (domain.User, error) {
	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		return p.key, nil
	})
	if err != nil {
		return domain.User{}, err
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		return domain.User{}, jwt.ErrSignatureInvalid
	}
	return domain.User{
		ID:          claims.Subject,
		DisplayName: claims.DisplayName,
		Email:       claims.Email,
		AvatarRef:   claims.AvatarRef,
	}, nil
}

// GenerateToken creates a signed identity token. Used by tests and by
// embedding systems that delegate issuance to the same key.
func GenerateToken(key []byte, user domain.User, validity time.Duration) (string, error) {
	claims := &IdentityClaims{
		DisplayName: user.DisplayName,
		Email:       user.Email,
		AvatarRef:   user.AvatarRef,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "collab-lab",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}
