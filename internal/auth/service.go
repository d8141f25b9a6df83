package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/studyhall/studyhall-lms/internal/access"
)

type Service struct{ hmac []byte }

func NewService(secret string) *Service { return &Service{hmac: []byte(secret)} }

type Claims struct {
	Role string `json:"role"` // "admin" or "student"
	jwt.RegisteredClaims
}

func (s *Service) IssueToken(userID int64, role access.Role) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    "studyhall",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(8 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.hmac)
}

func (s *Service) Parse(tokenStr string) (access.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.hmac, nil
	})
	if err != nil {
		return access.Identity{}, err
	}
	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return access.Identity{}, jwt.ErrTokenMalformed
	}
	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return access.Identity{}, jwt.ErrTokenInvalidSubject
	}
	role, err := access.ParseRole(c.Role)
	if err != nil {
		return access.Identity{}, err
	}
	return access.Identity{UserID: userID, Role: role}, nil
}
