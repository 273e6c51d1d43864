// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	"github.com/yiakwy/edx-platform/internal/domain/port"
	errs "github.com/yiakwy/edx-platform/pkg/errors"
)

const (
	// PS256 is the default for Heimdall's JWT finalizer.
	signatureAlgorithm = validator.PS256
	defaultIssuer      = "heimdall"
	defaultAudience    = "edx-course-discovery"
	defaultJWKSURL     = "http://heimdall:4457/.well-known/jwks"
	jwksCacheTTL       = 5 * time.Minute
)

// JWTAuthConfig holds the configuration parameters for JWT authentication.
type JWTAuthConfig struct {
	// JWKSURL is the URL to the JSON Web Key Set endpoint
	JWKSURL string `yaml:"jwks_url"`
	// Audience is the intended audience for the JWT token
	Audience string `yaml:"audience"`
	// Issuer defaults to heimdall
	Issuer string `yaml:"issuer"`
}

var (
	// Factory for custom JWT claims target.
	customClaims = func() validator.CustomClaims {
		return &HeimdallClaims{}
	}
)

// HeimdallClaims contains extra custom claims we want to parse from the JWT
// token.
type HeimdallClaims struct {
	Principal string `json:"principal"`
	Email     string `json:"email,omitempty"`
}

// Validate provides additional middleware validation of any claims defined in
// HeimdallClaims.
func (c *HeimdallClaims) Validate(ctx context.Context) error {
	if c.Principal == "" {
		return errors.New("principal must be provided")
	}
	return nil
}

// JWTAuth validates viewer tokens against a JWKS endpoint.
type JWTAuth struct {
	validator *validator.Validator
	config    JWTAuthConfig
}

// ParsePrincipal extracts the principal from the JWT claims.
func (j *JWTAuth) ParsePrincipal(ctx context.Context, token string, logger *slog.Logger) (string, error) {

	if j.validator == nil {
		return "", errors.New("JWT validator is not set up")
	}

	parsedJWT, err := j.validator.ValidateToken(ctx, token)
	if err != nil {
		logger.ErrorContext(ctx, "failed to validate JWT token",
			"error", err,
		)
		return "", errs.NewValidation(sanitizeError(err))
	}

	claims, ok := parsedJWT.(*validator.ValidatedClaims)
	if !ok {
		// This should never happen.
		return "", errs.NewValidation("failed to get validated authorization claims")
	}

	customClaims, ok := claims.CustomClaims.(*HeimdallClaims)
	if !ok {
		// This should never happen.
		return "", errs.NewValidation("failed to get custom authorization claims")
	}

	logger.DebugContext(ctx, "parsed principal", "principal", customClaims.Principal)

	return customClaims.Principal, nil
}

// sanitizeError keeps the first two levels of a validation error. Colons
// approximate the nesting boundaries.
func sanitizeError(err error) string {
	errString := err.Error()
	firstColon := strings.Index(errString, ":")
	if firstColon != -1 && firstColon+1 < len(errString) {
		errString = strings.Replace(errString, ": go-jose/go-jose/jwt", "", 1)
		secondColon := strings.Index(errString[firstColon+1:], ":")
		if secondColon != -1 {
			errString = errString[:firstColon+secondColon+1]
		}
	}
	return errString
}

// NewJWTAuth creates a new JWT authentication service
func NewJWTAuth(config JWTAuthConfig) (port.Authenticator, error) {
	// Set up defaults if not provided
	jwksURLStr := config.JWKSURL
	if jwksURLStr == "" {
		jwksURLStr = defaultJWKSURL
	}
	audience := config.Audience
	if audience == "" {
		audience = defaultAudience
	}
	issuerStr := config.Issuer
	if issuerStr == "" {
		issuerStr = defaultIssuer
	}

	// Set up Heimdall JWKS key provider.
	jwksURL, err := url.Parse(jwksURLStr)
	if err != nil {
		slog.With("error", err).Error("invalid JWKS_URL")
		return nil, err
	}
	issuer, err := url.Parse(issuerStr)
	if err != nil {
		slog.With("error", err).Error("invalid JWT issuer")
		return nil, err
	}
	provider := jwks.NewCachingProvider(issuer, jwksCacheTTL, jwks.WithCustomJWKSURI(jwksURL))

	// Set up the JWT validator.
	jwtValidator, err := validator.New(
		provider.KeyFunc,
		signatureAlgorithm,
		issuer.String(),
		[]string{audience},
		validator.WithCustomClaims(customClaims),
		validator.WithAllowedClockSkew(5*time.Second),
	)
	if err != nil {
		slog.With("error", err).Error("failed to set up the Heimdall JWT validator")
		return nil, err
	}

	return &JWTAuth{
		validator: jwtValidator,
		config:    config,
	}, nil
}
