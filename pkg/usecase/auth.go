package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/interfaces"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model/auth"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/crypto/bcrypt"
)

// acceptableSkew absorbs clock differences with the identity provider
const acceptableSkew = 10 * time.Second

// AuthUseCase verifies Supabase access tokens and resolves the caller's
// profile.
type AuthUseCase struct {
	repo       interfaces.Repository
	hmacSecret []byte
	keySet     jwk.Set
	issuer     string
	audience   string
	cache      *profileCache
}

// AuthOption is a functional option for AuthUseCase
type AuthOption func(*AuthUseCase)

// WithHMACSecret verifies HS256 tokens with the project's JWT secret
func WithHMACSecret(secret string) AuthOption {
	return func(uc *AuthUseCase) {
		uc.hmacSecret = []byte(secret)
	}
}

// WithKeySet verifies asymmetrically signed tokens against a JWK set
func WithKeySet(set jwk.Set) AuthOption {
	return func(uc *AuthUseCase) {
		uc.keySet = set
	}
}

func WithIssuer(issuer string) AuthOption {
	return func(uc *AuthUseCase) {
		uc.issuer = issuer
	}
}

func WithAudience(audience string) AuthOption {
	return func(uc *AuthUseCase) {
		uc.audience = audience
	}
}

func NewAuthUseCase(repo interfaces.Repository, options ...AuthOption) *AuthUseCase {
	uc := &AuthUseCase{
		repo:  repo,
		cache: newProfileCache(),
	}

	for _, opt := range options {
		opt(uc)
	}

	return uc
}

// NewJWKSKeySet fetches the JWK set at url and keeps it refreshed in the
// background for the lifetime of ctx.
func NewJWKSKeySet(ctx context.Context, url string) (jwk.Set, error) {
	cache := jwk.NewCache(ctx)
	if err := cache.Register(url, jwk.WithMinRefreshInterval(15*time.Minute)); err != nil {
		return nil, goerr.Wrap(err, "failed to register JWKS URL", goerr.V("jwks_url", url))
	}
	if _, err := cache.Refresh(ctx, url); err != nil {
		return nil, goerr.Wrap(err, "failed to fetch JWKS", goerr.V("jwks_url", url))
	}
	return jwk.NewCachedSet(cache, url), nil
}

// Enabled reports whether a verification key is configured
func (uc *AuthUseCase) Enabled() bool {
	return len(uc.hmacSecret) > 0 || uc.keySet != nil
}

// userMetadata is the subset of Supabase's user_metadata claim used when a
// profile is first created.
type userMetadata struct {
	FullName    string
	Role        types.Role
	CompanyName string
}

func parseUserMetadata(token jwt.Token) userMetadata {
	var md userMetadata
	raw, ok := token.Get("user_metadata")
	if !ok {
		return md
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return md
	}
	md.FullName, _ = m["full_name"].(string)
	md.CompanyName, _ = m["company_name"].(string)
	if role, _ := m["role"].(string); types.Role(role) == types.RoleCompany {
		md.Role = types.RoleCompany
	}
	return md
}

// parseToken verifies signature and time claims of a raw token
func (uc *AuthUseCase) parseToken(raw string) (jwt.Token, error) {
	opts := []jwt.ParseOption{
		jwt.WithValidate(true),
		jwt.WithAcceptableSkew(acceptableSkew),
	}
	switch {
	case uc.keySet != nil:
		opts = append(opts, jwt.WithKeySet(uc.keySet))
	case len(uc.hmacSecret) > 0:
		opts = append(opts, jwt.WithKey(jwa.HS256, uc.hmacSecret))
	default:
		return nil, goerr.Wrap(ErrUnauthorized, "token verification is not configured")
	}
	if uc.issuer != "" {
		opts = append(opts, jwt.WithIssuer(uc.issuer))
	}
	if uc.audience != "" {
		opts = append(opts, jwt.WithAudience(uc.audience))
	}

	token, err := jwt.Parse([]byte(raw), opts...)
	if err != nil {
		return nil, goerr.Wrap(ErrUnauthorized, "failed to verify token", goerr.V("reason", err.Error()))
	}
	if token.Subject() == "" {
		return nil, goerr.Wrap(ErrUnauthorized, "token has no subject")
	}
	return token, nil
}

// Authenticate verifies a bearer token and returns the caller's session.
// The caller's profile is created on first access.
func (uc *AuthUseCase) Authenticate(ctx context.Context, raw string) (*auth.Session, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, goerr.Wrap(ErrUnauthorized, "empty token")
	}

	token, err := uc.parseToken(raw)
	if err != nil {
		return nil, err
	}

	email, _ := token.Get("email")
	emailStr, _ := email.(string)

	profile, err := uc.loadProfile(ctx, types.UserID(token.Subject()), emailStr, parseUserMetadata(token))
	if err != nil {
		return nil, err
	}

	return &auth.Session{
		UserID:    profile.ID,
		Email:     profile.Email,
		Role:      profile.Role.Normalize(),
		ExpiresAt: token.Expiration(),
	}, nil
}

func (uc *AuthUseCase) loadProfile(ctx context.Context, id types.UserID, email string, md userMetadata) (*model.Profile, error) {
	if p, ok := uc.cache.get(id); ok {
		return p, nil
	}

	p, err := uc.repo.Profile().Get(ctx, id)
	if err == nil {
		uc.cache.set(p)
		return p, nil
	}
	if !errors.Is(err, interfaces.ErrNotFound) {
		return nil, goerr.Wrap(err, "failed to get profile", goerr.V(UserIDKey, id))
	}

	role := md.Role
	if role == "" {
		role = types.RoleUser
	}
	created, err := uc.repo.Profile().Put(ctx, &model.Profile{
		ID:          id,
		Email:       email,
		FullName:    md.FullName,
		Role:        role,
		CompanyName: md.CompanyName,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create profile", goerr.V(UserIDKey, id))
	}
	uc.cache.set(created)
	return created, nil
}

// Me returns the caller's profile
func (uc *AuthUseCase) Me(ctx context.Context) (*model.Profile, error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	p, err := uc.repo.Profile().Get(ctx, sess.UserID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get profile", goerr.V(UserIDKey, sess.UserID))
	}
	return p, nil
}

// VerifyAdminCredential compares secret with the bcrypt hash stored on the
// caller's profile. A profile without a hash never matches.
func (uc *AuthUseCase) VerifyAdminCredential(ctx context.Context, secret string) (bool, error) {
	p, err := uc.Me(ctx)
	if err != nil {
		return false, err
	}
	if p.AdminSecretHash == "" || secret == "" {
		return false, nil
	}

	err = bcrypt.CompareHashAndPassword([]byte(p.AdminSecretHash), []byte(secret))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, goerr.Wrap(err, "failed to compare admin secret", goerr.V(UserIDKey, p.ID))
	}
}

// SetAdmin grants the admin role to a profile and stores the hash of its
// admin secret. It is used by the seed command, not by the HTTP API.
func (uc *AuthUseCase) SetAdmin(ctx context.Context, id types.UserID, email, secret string) (*model.Profile, error) {
	hash, err := HashAdminSecret(secret)
	if err != nil {
		return nil, err
	}

	p, err := uc.repo.Profile().Get(ctx, id)
	if err != nil {
		if !errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(err, "failed to get profile", goerr.V(UserIDKey, id))
		}
		p = &model.Profile{ID: id, Email: email}
	}
	p.Role = types.RoleAdmin
	p.AdminSecretHash = hash

	saved, err := uc.repo.Profile().Put(ctx, p)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save admin profile", goerr.V(UserIDKey, id))
	}
	uc.cache.remove(id)
	return saved, nil
}

// HashAdminSecret returns the bcrypt hash stored as admin_secret_hash
func HashAdminSecret(secret string) (string, error) {
	if secret == "" {
		return "", goerr.New("admin secret is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", goerr.Wrap(err, "failed to hash admin secret")
	}
	return string(hash), nil
}
