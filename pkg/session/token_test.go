package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSigningKey = "storefront-test-key"

func mustToken(test *testing.T, claims jwt.MapClaims) string {
	test.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSigningKey))
	if err != nil {
		test.Fatalf("sign token: %v", err)
	}
	return signed
}

func testNow() int64 {
	return time.Now().UTC().Unix()
}

func TestDecodeTokenRejectsMalformedTokens(test *testing.T) {
	test.Parallel()
	testCases := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "one segment", raw: "justonesegment"},
		{name: "two segments", raw: "header.payload"},
		{name: "four segments", raw: "a.b.c.d"},
		{name: "invalid base64 payload", raw: "aGVhZGVy.!!!not-base64url!!!.c2ln"},
		{name: "payload not json", raw: "aGVhZGVy.bm90LWpzb24.c2ln"},
	}
	for _, testCase := range testCases {
		testCase := testCase
		test.Run(testCase.name, func(test *testing.T) {
			test.Parallel()
			if payload := DecodeToken(testCase.raw); payload != nil {
				test.Fatalf("expected nil payload for %q, got %+v", testCase.raw, payload)
			}
		})
	}
}

func TestDecodeTokenExtractsClaims(test *testing.T) {
	test.Parallel()
	issuedAt := testNow()
	expiresAt := issuedAt + 3600
	raw := mustToken(test, jwt.MapClaims{
		"nameid":   "user-7",
		"email":    "ada@example.com",
		"name":     "Ada Lovelace",
		"username": "ada",
		"is_staff": true,
		"role":     "admin",
		"role_id":  float64(3),
		"iat":      issuedAt,
		"exp":      expiresAt,
	})

	payload := DecodeToken(raw)
	if payload == nil {
		test.Fatalf("expected payload, got nil")
	}
	if payload.UserID != "user-7" {
		test.Fatalf("expected user id user-7, got %q", payload.UserID)
	}
	if payload.Email != "ada@example.com" {
		test.Fatalf("unexpected email %q", payload.Email)
	}
	if !payload.IsStaff {
		test.Fatalf("expected staff payload")
	}
	if payload.RoleID != "3" {
		test.Fatalf("expected numeric role id coerced to \"3\", got %q", payload.RoleID)
	}
	if payload.ExpiresAtUnixUTC != expiresAt {
		test.Fatalf("expected exp %d, got %d", expiresAt, payload.ExpiresAtUnixUTC)
	}
}

func TestDecodeTokenFallsBackToIDClaim(test *testing.T) {
	test.Parallel()
	raw := mustToken(test, jwt.MapClaims{"id": "user-42", "exp": testNow() + 60})
	payload := DecodeToken(raw)
	if payload == nil {
		test.Fatalf("expected payload, got nil")
	}
	if payload.UserID != "user-42" {
		test.Fatalf("expected id claim fallback, got %q", payload.UserID)
	}
}

func TestIsExpired(test *testing.T) {
	test.Parallel()
	now := testNow()
	testCases := []struct {
		name string
		raw  func(test *testing.T) string
		want bool
	}{
		{
			name: "undecodable token",
			raw:  func(test *testing.T) string { return "not.a" },
			want: true,
		},
		{
			name: "missing exp",
			raw: func(test *testing.T) string {
				return mustToken(test, jwt.MapClaims{"nameid": "user-1"})
			},
			want: true,
		},
		{
			name: "past exp",
			raw: func(test *testing.T) string {
				return mustToken(test, jwt.MapClaims{"nameid": "user-1", "exp": now - 120})
			},
			want: true,
		},
		{
			name: "future exp",
			raw: func(test *testing.T) string {
				return mustToken(test, jwt.MapClaims{"nameid": "user-1", "exp": now + 3600})
			},
			want: false,
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		test.Run(testCase.name, func(test *testing.T) {
			test.Parallel()
			if got := IsExpired(testCase.raw(test), now); got != testCase.want {
				test.Fatalf("expected expired=%v, got %v", testCase.want, got)
			}
		})
	}
}

func TestStaffClaimCoercion(test *testing.T) {
	test.Parallel()
	testCases := []struct {
		name  string
		claim any
		want  bool
	}{
		{name: "boolean true", claim: true, want: true},
		{name: "string true", claim: "true", want: true},
		{name: "boolean false", claim: false, want: false},
		{name: "string false", claim: "false", want: false},
		{name: "arbitrary string", claim: "yes", want: false},
		{name: "absent", claim: nil, want: false},
	}
	for _, testCase := range testCases {
		testCase := testCase
		test.Run(testCase.name, func(test *testing.T) {
			test.Parallel()
			claims := jwt.MapClaims{"nameid": "user-1", "exp": testNow() + 60}
			if testCase.claim != nil {
				claims["is_staff"] = testCase.claim
			}
			raw := mustToken(test, claims)
			if got := IsStaff(raw); got != testCase.want {
				test.Fatalf("expected staff=%v for claim %v, got %v", testCase.want, testCase.claim, got)
			}
		})
	}
}
