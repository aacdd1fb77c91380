package config

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/interfaces"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Auth configures verification of Supabase access tokens. Either the
// project's JWT secret (HS256) or its JWKS endpoint is used.
type Auth struct {
	supabaseURL string
	jwtSecret   string
	jwksURL     string
	audience    string
}

func (x *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "supabase-url",
			Usage:       "Supabase project URL, e.g. https://xyz.supabase.co (sets the token issuer)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("APPLYONCE_SUPABASE_URL", "SUPABASE_URL"),
			Destination: &x.supabaseURL,
		},
		&cli.StringFlag{
			Name:        "supabase-jwt-secret",
			Usage:       "Supabase JWT secret for HS256 tokens",
			Category:    "Authentication",
			Sources:     cli.EnvVars("APPLYONCE_SUPABASE_JWT_SECRET", "SUPABASE_JWT_SECRET"),
			Destination: &x.jwtSecret,
		},
		&cli.StringFlag{
			Name:        "supabase-jwks-url",
			Usage:       "JWKS URL for asymmetric tokens (defaults to <supabase-url>/auth/v1/.well-known/jwks.json when no secret is set)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("APPLYONCE_SUPABASE_JWKS_URL"),
			Destination: &x.jwksURL,
		},
		&cli.StringFlag{
			Name:        "supabase-audience",
			Usage:       "Expected token audience",
			Value:       "authenticated",
			Category:    "Authentication",
			Sources:     cli.EnvVars("APPLYONCE_SUPABASE_AUDIENCE"),
			Destination: &x.audience,
		},
	}
}

func (x Auth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("supabase-url", x.supabaseURL),
		slog.Int("jwt-secret.len", len(x.jwtSecret)),
		slog.String("jwks-url", x.JWKSURL()),
		slog.String("audience", x.audience),
	)
}

// Issuer returns the expected "iss" claim, derived from the project URL
func (x *Auth) Issuer() string {
	if x.supabaseURL == "" {
		return ""
	}
	return strings.TrimRight(x.supabaseURL, "/") + "/auth/v1"
}

// JWKSURL returns the key set endpoint, or "" when the HS256 secret is used
func (x *Auth) JWKSURL() string {
	if x.jwksURL != "" {
		return x.jwksURL
	}
	if x.jwtSecret == "" && x.supabaseURL != "" {
		return x.Issuer() + "/.well-known/jwks.json"
	}
	return ""
}

// IsConfigured reports whether tokens can be verified
func (x *Auth) IsConfigured() bool {
	return x.jwtSecret != "" || x.JWKSURL() != ""
}

// Configure creates the AuthUseCase. Without any key, every bearer token is
// rejected and the API only serves public routes.
func (x *Auth) Configure(ctx context.Context, repo interfaces.Repository) (*usecase.AuthUseCase, error) {
	var opts []usecase.AuthOption
	if issuer := x.Issuer(); issuer != "" {
		opts = append(opts, usecase.WithIssuer(issuer))
	}
	if x.audience != "" {
		opts = append(opts, usecase.WithAudience(x.audience))
	}

	switch {
	case x.jwtSecret != "":
		opts = append(opts, usecase.WithHMACSecret(x.jwtSecret))
	case x.JWKSURL() != "":
		set, err := usecase.NewJWKSKeySet(ctx, x.JWKSURL())
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load Supabase key set")
		}
		opts = append(opts, usecase.WithKeySet(set))
	}

	return usecase.NewAuthUseCase(repo, opts...), nil
}
