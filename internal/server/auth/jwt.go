// Package auth issues and verifies the short-lived HS256 tokens that guard
// re-downloads of generated documents.
package auth

import (
	"time"

	"github.com/AKupriichuk/CV-on-the-Go/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the standard registered claims plus the document the token
// grants access to.
type Claims struct {
	jwt.RegisteredClaims
	DocumentID string
}

// GenerateDownloadToken mints a token for one document, valid for the given
// duration.
func GenerateDownloadToken(documentID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		DocumentID: documentID,
	})

	return token.SignedString(secretKey)
}

// GetDocumentIDFromToken verifies a token and returns the document id it was
// minted for. Expired or tampered tokens yield common.ErrInvalidToken.
func GetDocumentIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", common.ErrInvalidToken
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.DocumentID, nil
}
