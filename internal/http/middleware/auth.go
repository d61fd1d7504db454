package middleware

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"needsnet.app/api/common/id"
	"needsnet.app/api/common/logger"
	"needsnet.app/api/internal/apperr"
	"needsnet.app/api/internal/model"
)

type contextKey string

const principalContextKey contextKey = "principal"

const (
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// AdminRoles may perform administrative writes.
var AdminRoles = []string{RoleAdmin, RoleSuperAdmin}

var ErrInvalidToken = errors.New("invalid token")

// Principal is the caller identified by a verified bearer token.
type Principal struct {
	ID    string
	Name  string
	Roles []string
}

func (p *Principal) User() model.User {
	return model.User{ID: p.ID, Name: p.Name}
}

type Claims struct {
	Name  string   `json:"name,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Tokens verifies, and for tooling issues, HS256 bearer tokens.
type Tokens struct {
	secret []byte
	issuer string
}

func NewTokens(secret, issuer string) *Tokens {
	return &Tokens{secret: []byte(secret), issuer: issuer}
}

func (t *Tokens) Verify(raw string) (*Principal, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !id.Valid(claims.Subject) {
		return nil, fmt.Errorf("%w: subject is not a valid user id", ErrInvalidToken)
	}

	return &Principal{ID: claims.Subject, Name: claims.Name, Roles: claims.Roles}, nil
}

// Issue signs a token for p valid for ttl from now.
func (t *Tokens) Issue(p Principal, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		Name:  p.Name,
		Roles: p.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			abort(c, apperr.Unauthorized("authentication required"))
			return
		}

		principal, err := tokens.Verify(raw)
		if err != nil {
			abort(c, apperr.Unauthorized("invalid or expired token").WithCause(err))
			return
		}

		attachPrincipal(c, principal)
		c.Next()
	}
}

// OptionalAuth attaches the principal when a valid token is present, but never aborts.
// Use for routes that work for both guests and authenticated users.
func OptionalAuth(tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := bearerToken(c); ok {
			if principal, err := tokens.Verify(raw); err == nil {
				attachPrincipal(c, principal)
			}
		}
		c.Next()
	}
}

// RequireRoles must run after RequireAuth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetPrincipal(c.Request.Context())
		if principal == nil {
			abort(c, apperr.Unauthorized("authentication required"))
			return
		}
		if !Allowed(roles, principal.Roles) {
			abort(c, apperr.Forbidden("insufficient role"))
			return
		}
		c.Next()
	}
}

// Allowed reports whether actual holds any of required. An empty required
// list admits everyone.
func Allowed(required, actual []string) bool {
	if len(required) == 0 {
		return true
	}
	for _, r := range actual {
		if slices.Contains(required, r) {
			return true
		}
	}
	return false
}

func GetPrincipal(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey).(*Principal)
	return p
}

// WithPrincipal returns ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	ctx = context.WithValue(ctx, principalContextKey, p)
	return logger.WithLogFields(ctx, logger.LogFields{UserID: logger.Ptr(p.ID)})
}

func attachPrincipal(c *gin.Context, p *Principal) {
	c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), p))
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
