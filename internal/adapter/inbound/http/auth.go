package http

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/0xsj/overwatch-pkg/types"
)

const tokenContextKey = "token"

// AuthConfig describes the bearer tokens issued by the identity service.
type AuthConfig struct {
	Issuer     string
	Audience   string
	SigningKey []byte
}

// JWTMiddleware validates HS256 bearer tokens and stores the subject as the
// acting account ID on the request context.
func JWTMiddleware(cfg AuthConfig, skipper middleware.Skipper) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		Skipper:    skipper,
		ContextKey: tokenContextKey,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			token, accountID, err := parseBearer(cfg, auth)
			if err != nil {
				return nil, err
			}
			c.SetRequest(c.Request().WithContext(WithAccountID(c.Request().Context(), accountID)))
			return token, nil
		},
	})
}

func parseBearer(cfg AuthConfig, raw string) (*jwt.Token, types.ID, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return cfg.SigningKey, nil
	}, opts...)
	if err != nil {
		return nil, "", fmt.Errorf("parse bearer token: %w", err)
	}

	accountID := types.ID(claims.Subject)
	if accountID.IsEmpty() {
		return nil, "", errors.New("bearer token has no subject")
	}
	return token, accountID, nil
}
