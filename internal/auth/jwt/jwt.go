package jwt

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/niposch/wake-on-lan-web/internal/config"
	md "github.com/niposch/wake-on-lan-web/internal/models"
	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

type Port interface {
	GetAccessTime() time.Time
	GetRefreshTime(rememberMe bool) time.Time
	NewToken(ctx context.Context, uid uuid.UUID, role md.Role) (string, error)
	ParseClaims(ctx context.Context, tokenStr string) (Claims, error)
}

// Core signs and verifies access tokens. Verification is stateless:
// signature and expiry are the only inputs, storage is never consulted.
type Core struct {
	secret []byte
	issuer string
}

type Claims struct {
	UID  uuid.UUID `json:"uid"`
	Role md.Role   `json:"role"`
	jwt.RegisteredClaims
}

func New(conf config.Config) *Core {
	return &Core{secret: []byte(conf.Auth.Secret), issuer: conf.Auth.Issuer}
}

func (c *Core) GetAccessTime() time.Time {
	return time.Now().Add(config.AccessTokenDuration)
}

func (c *Core) GetRefreshTime(rememberMe bool) time.Time {
	if rememberMe {
		return time.Now().Add(config.RememberMeRefreshDuration)
	}

	return time.Now().Add(config.RefreshTokenDuration)
}

func (c *Core) NewToken(ctx context.Context, uid uuid.UUID, role md.Role) (string, error) {
	const op = "auth.NewToken.jwt"
	span, _ := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	signed, err := jwt.NewWithClaims(
		jwt.SigningMethodHS256, &Claims{
			UID:  uid,
			Role: role,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(config.AccessTokenDuration)),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				Issuer:    c.issuer,
			},
		},
	).SignedString(c.secret)
	if err != nil {
		zap.L().Error(
			ErrWhileCreatingToken.Error(),
			zap.String("op", op),
			zap.Error(err),
		)

		return "", ErrWhileCreatingToken
	}

	return signed, nil
}

func (c *Core) ParseClaims(ctx context.Context, tokenStr string) (Claims, error) {
	const op = "auth.ParseClaims.jwt"
	span, _ := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	claims := Claims{}
	token, err := jwt.ParseWithClaims(
		tokenStr, &claims, func(token *jwt.Token) (any, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, ErrUnexpectedSignMethod
			}

			return c.secret, nil
		},
	)
	if err != nil {
		zap.L().Debug(
			"Failed to parse claims",
			zap.String("op", op),
			zap.Error(err),
		)

		return claims, ErrInvalidToken
	}

	if !token.Valid {
		return claims, ErrInvalidToken
	}

	return claims, nil
}
