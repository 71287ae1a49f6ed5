package jwt

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/sikapay/sikapay-backend-go/internal/domain/tenant"
)

const (
	ClaimTenantID        = "tenant_id"
	ClaimUserID          = "user_id"
	ClaimIsPlatformAdmin = "is_platform_admin"
	ClaimType            = "type"

	tokenTypeAccess = "access"
)

var ErrInvalidClaims = errors.New("token claims are invalid")

type Service interface {
	GenerateAccessToken(tc tenant.Context) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime time.Duration
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime time.Duration) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

// GenerateAccessToken mints an access token carrying the tenant context.
// Tokens are normally issued by the identity side of the product; this is
// used by operators and tests.
func (j *JWTService) GenerateAccessToken(tc tenant.Context) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenExpirationTime).Unix()

	claims := map[string]interface{}{
		ClaimUserID:          tc.UserID,
		ClaimIsPlatformAdmin: tc.IsPlatformAdmin,
		ClaimType:            tokenTypeAccess,
		"exp":                expiresAt,
	}
	if tc.TenantID != "" {
		claims[ClaimTenantID] = tc.TenantID
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// ContextFromClaims builds the tenant context from verified claims. A missing
// tenant_id is allowed (platform administrators); a missing user_id is not.
func ContextFromClaims(claims map[string]interface{}) (tenant.Context, error) {
	if tokenType, _ := claims[ClaimType].(string); tokenType != tokenTypeAccess {
		return tenant.Context{}, ErrInvalidClaims
	}

	userID, ok := claims[ClaimUserID].(string)
	if !ok || userID == "" {
		return tenant.Context{}, ErrInvalidClaims
	}

	tc := tenant.Context{UserID: userID}
	if tenantID, ok := claims[ClaimTenantID].(string); ok {
		tc.TenantID = tenantID
	}
	if admin, ok := claims[ClaimIsPlatformAdmin].(bool); ok {
		tc.IsPlatformAdmin = admin
	}

	return tc, nil
}
