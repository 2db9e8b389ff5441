package domain

import (
	"github.com/golang-jwt/jwt"

	"github.com/curiomart/goapi/base/ctx"
)

type JwtCustomClaims struct {
	UserId string `json:"userId"`
	jwt.StandardClaims
}

type AuthUsecase interface {
	IssueToken(ctx ctx.Ctx, userId UserId) (string, error)
	// ParseToken validates the bearer token and returns the user it was
	// issued to
	ParseToken(ctx ctx.Ctx, token string) (UserId, error)
}
