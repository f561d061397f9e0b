package session

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestDeriveIdentityDisplayNameFallbackChain(test *testing.T) {
	test.Parallel()
	testCases := []struct {
		name   string
		claims jwt.MapClaims
		want   string
	}{
		{
			name:   "explicit name wins",
			claims: jwt.MapClaims{"name": "Grace Hopper", "username": "grace", "email": "g@example.com"},
			want:   "Grace Hopper",
		},
		{
			name:   "username when name missing",
			claims: jwt.MapClaims{"username": "grace", "email": "g@example.com"},
			want:   "grace",
		},
		{
			name:   "email local part when name and username missing",
			claims: jwt.MapClaims{"email": "grace.hopper@example.com"},
			want:   "grace.hopper",
		},
		{
			name:   "literal User when nothing usable remains",
			claims: jwt.MapClaims{"nameid": "user-9"},
			want:   "User",
		},
		{
			name:   "whitespace name is treated as missing",
			claims: jwt.MapClaims{"name": "   ", "username": "grace"},
			want:   "grace",
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		test.Run(testCase.name, func(test *testing.T) {
			test.Parallel()
			raw := mustToken(test, testCase.claims)
			identity := DeriveIdentity(raw)
			if identity == nil {
				test.Fatalf("expected identity, got nil")
			}
			if identity.DisplayName != testCase.want {
				test.Fatalf("expected display name %q, got %q", testCase.want, identity.DisplayName)
			}
		})
	}
}

func TestDeriveIdentityReturnsNilForMalformedToken(test *testing.T) {
	test.Parallel()
	if identity := DeriveIdentity("a.b"); identity != nil {
		test.Fatalf("expected nil identity, got %+v", identity)
	}
}

func TestDeriveIdentityAlwaysNamesUnexpiredSessions(test *testing.T) {
	test.Parallel()
	raw := mustToken(test, jwt.MapClaims{"nameid": "user-3", "exp": testNow() + 600})
	identity := DeriveIdentity(raw)
	if identity == nil {
		test.Fatalf("expected identity, got nil")
	}
	if identity.DisplayName == "" {
		test.Fatalf("expected non-empty display name for unexpired token")
	}
}
