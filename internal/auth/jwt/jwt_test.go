package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/niposch/wake-on-lan-web/internal/config"
	md "github.com/niposch/wake-on-lan-web/internal/models"
	"github.com/stretchr/testify/assert"
)

func newTestCore(secret string) *Core {
	conf := config.Config{}
	conf.Auth.Secret = secret
	conf.Auth.Issuer = "wake-on-lan-web-test"
	return New(conf)
}

func TestCore_NewTokenAndParse(t *testing.T) {
	c := newTestCore("test-secret")
	ctx := context.Background()

	uid := uuid.New()
	token, err := c.NewToken(ctx, uid, md.RoleAdmin)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := c.ParseClaims(ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, uid, claims.UID)
	assert.Equal(t, md.RoleAdmin, claims.Role)
	assert.Equal(t, "wake-on-lan-web-test", claims.Issuer)
}

func TestCore_ParseClaimsRejectsWrongSecret(t *testing.T) {
	ctx := context.Background()

	token, err := newTestCore("secret-a").NewToken(ctx, uuid.New(), md.RoleUser)
	assert.NoError(t, err)

	_, err = newTestCore("secret-b").ParseClaims(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCore_ParseClaimsRejectsGarbage(t *testing.T) {
	c := newTestCore("test-secret")

	_, err := c.ParseClaims(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCore_ParseClaimsRejectsWrongAlg(t *testing.T) {
	c := newTestCore("test-secret")

	// Unsigned token: alg "none" must never verify.
	unsigned, err := jwt.NewWithClaims(
		jwt.SigningMethodNone, &Claims{
			UID:  uuid.New(),
			Role: md.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		},
	).SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, err = c.ParseClaims(context.Background(), unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCore_ParseClaimsRejectsExpired(t *testing.T) {
	c := newTestCore("test-secret")

	expired, err := jwt.NewWithClaims(
		jwt.SigningMethodHS256, &Claims{
			UID:  uuid.New(),
			Role: md.RoleUser,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		},
	).SignedString([]byte("test-secret"))
	assert.NoError(t, err)

	_, err = c.ParseClaims(context.Background(), expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCore_TokenLifetimes(t *testing.T) {
	c := newTestCore("test-secret")
	now := time.Now()

	access := c.GetAccessTime()
	assert.WithinDuration(t, now.Add(config.AccessTokenDuration), access, time.Minute)

	standard := c.GetRefreshTime(false)
	assert.WithinDuration(t, now.Add(config.RefreshTokenDuration), standard, time.Minute)

	extended := c.GetRefreshTime(true)
	assert.WithinDuration(t, now.Add(config.RememberMeRefreshDuration), extended, time.Minute)
	assert.True(t, extended.After(standard))
}
