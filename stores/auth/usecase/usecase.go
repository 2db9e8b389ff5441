package usecase

import (
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/xerrors"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/domain"
	"github.com/curiomart/goapi/domain/account"
)

const tokenLifetime = 24 * time.Hour

type impl struct {
	jwtSecret []byte
	account   account.UseCase
}

func New(jwtSecret string, account account.UseCase) domain.AuthUsecase {
	return &impl{
		jwtSecret: []byte(jwtSecret),
		account:   account,
	}
}

func (im *impl) IssueToken(ctx ctx.Ctx, userId domain.UserId) (string, error) {
	_, err := im.account.Get(ctx, userId)

	if err != nil && err != domain.ErrNotFound {
		return "", err
	}

	if err == domain.ErrNotFound {
		if _, err := im.account.Register(ctx, userId, ""); err != nil {
			return "", err
		}
	}

	claims := domain.JwtCustomClaims{
		UserId: string(userId),
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(tokenLifetime).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	if ss, err := token.SignedString(im.jwtSecret); err != nil {
		ctx.WithField("err", err).Error("token.SignedString failed")
		return "", err
	} else {
		return ss, nil
	}
}

func (im *impl) ParseToken(ctx ctx.Ctx, str string) (domain.UserId, error) {
	token, err := jwt.ParseWithClaims(str, &domain.JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, xerrors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return im.jwtSecret, nil
	})
	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(*domain.JwtCustomClaims); ok && token.Valid {
		return domain.UserId(claims.UserId), nil
	}

	return "", domain.ErrForbidden
}
