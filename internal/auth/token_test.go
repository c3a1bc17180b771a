package auth

import (
	"errors"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

func mint(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestDecodeGuestCredential(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := mint(t, jwt.MapClaims{
		"sub":         42,
		"name":        "Ana",
		"room_number": "12B",
		"exp":         exp.Unix(),
	})

	claims, err := NewDecoder().Decode(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if claims.SubjectID != 42 || claims.Name != "Ana" || claims.RoomNumber != "12B" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if !claims.ExpiresAt.Equal(exp) {
		t.Fatalf("expected exp %v got %v", exp, claims.ExpiresAt)
	}
}

func TestDecodeIgnoresSignature(t *testing.T) {
	token := mint(t, jwt.MapClaims{"sub": "7"})
	// any signing key is accepted since nothing is verified
	other, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "7"}).SignedString([]byte("other"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	for _, tok := range []string{token, other} {
		claims, err := NewDecoder().Decode(tok)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if claims.SubjectID != 7 {
			t.Fatalf("expected sub 7 got %d", claims.SubjectID)
		}
		if !claims.ExpiresAt.IsZero() {
			t.Fatal("expected no expiry")
		}
		if claims.Name != "" {
			t.Fatalf("expected empty name, got %q", claims.Name)
		}
	}
}

func TestDecodeNumericRoom(t *testing.T) {
	claims, err := NewDecoder().Decode(mint(t, jwt.MapClaims{"sub": 1, "room_number": 305}))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if claims.RoomNumber != "305" {
		t.Fatalf("expected room 305 got %q", claims.RoomNumber)
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"not a jwt":      "not.a.jwt",
		"garbage":        "abc",
		"missing sub":    mint(t, jwt.MapClaims{"name": "x"}),
		"fractional sub": mint(t, jwt.MapClaims{"sub": 1.5}),
		"text sub":       mint(t, jwt.MapClaims{"sub": "abc"}),
		"bad exp":        mint(t, jwt.MapClaims{"sub": 1, "exp": "tomorrow"}),
		"object name":    mint(t, jwt.MapClaims{"sub": 1, "name": map[string]any{"first": "a"}}),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewDecoder().Decode(token)
			if !errors.Is(err, ErrMalformedCredential) {
				t.Fatalf("expected ErrMalformedCredential, got %v", err)
			}
		})
	}
}

func FuzzDecode(f *testing.F) {
	f.Add("")
	f.Add("not.a.jwt")
	f.Add("eyJhbGciOiJub25lIn0.eyJzdWIiOjF9.")
	f.Fuzz(func(t *testing.T, input string) {
		// must not panic; every failure is a malformed credential
		if _, err := NewDecoder().Decode(input); err != nil && !errors.Is(err, ErrMalformedCredential) {
			t.Fatalf("unexpected error class: %v", err)
		}
	})
}

func TestExpiresAt(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	got, ok := NewDecoder().ExpiresAt(mint(t, jwt.MapClaims{"exp": exp.Unix()}))
	if !ok || !got.Equal(exp) {
		t.Fatalf("expected %v, got %v %v", exp, got, ok)
	}
	if _, ok := NewDecoder().ExpiresAt(mint(t, jwt.MapClaims{"sub": 1})); ok {
		t.Fatal("expected no expiry")
	}
	if _, ok := NewDecoder().ExpiresAt("opaque"); ok {
		t.Fatal("opaque credential has no expiry")
	}
}
