package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/sikapay/sikapay-backend-go/internal/domain/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, expiresAt, err := svc.GenerateAccessToken(tenant.Context{TenantID: "tenant-1", UserID: "user-1"})
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	tc, err := ContextFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, tenant.Context{TenantID: "tenant-1", UserID: "user-1"}, tc)
}

func TestContextFromClaims(t *testing.T) {
	tests := []struct {
		name    string
		claims  map[string]interface{}
		want    tenant.Context
		wantErr bool
	}{
		{
			name:   "platform admin without tenant",
			claims: map[string]interface{}{"type": "access", "user_id": "u", "is_platform_admin": true},
			want:   tenant.Context{UserID: "u", IsPlatformAdmin: true},
		},
		{
			name:    "refresh token",
			claims:  map[string]interface{}{"type": "refresh", "user_id": "u"},
			wantErr: true,
		},
		{
			name:    "missing user",
			claims:  map[string]interface{}{"type": "access", "tenant_id": "t"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ContextFromClaims(tt.claims)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidClaims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
