package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type assertError string

func (e assertError) Error() string { return string(e) }

func TestDetectLocale(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(r *http.Request)
		fallback string
		want     string
	}{
		{
			name: "x-locale overrides",
			setup: func(r *http.Request) {
				r.Header.Set("X-Locale", "es-MX")
				r.Header.Set("Accept-Language", "en-US")
			},
			want: "es",
		},
		{
			name: "accept-language used",
			setup: func(r *http.Request) {
				r.Header.Set("Accept-Language", "en-US,en;q=0.9")
			},
			want: "en",
		},
		{
			name: "accept-language quality ordering",
			setup: func(r *http.Request) {
				r.Header.Set("Accept-Language", "pt-BR,en;q=0.8")
			},
			want: "pt",
		},
		{
			name: "unsupported language falls back to en",
			setup: func(r *http.Request) {
				r.Header.Set("X-Locale", "zz-invalid-!!")
			},
			want: "en",
		},
		{
			name:     "configured fallback",
			fallback: "es",
			want:     "es",
		},
		{
			name: "default to en",
			want: "en",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.setup != nil {
				tc.setup(req)
			}
			got := detectLocale(req, tc.fallback)
			if got != tc.want {
				t.Fatalf("detectLocale() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestResolveCountry(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(r *http.Request)
		resolver CountryLookup
		want     string
	}{
		{
			name: "header precedence",
			setup: func(r *http.Request) {
				r.Header.Set("X-Country-Code", "us")
				r.Header.Set("CF-IPCountry", "br")
			},
			want: "US",
		},
		{
			name: "locale region fallback",
			setup: func(r *http.Request) {
				r.Header.Set("X-Locale", "en-AU")
			},
			want: "AU",
		},
		{
			name: "accept-language region",
			setup: func(r *http.Request) {
				r.Header.Set("Accept-Language", "en-GB,en;q=0.9")
			},
			want: "GB",
		},
		{
			name: "resolver fallback",
			resolver: func(ip string) (string, error) {
				if ip != "203.0.113.4" {
					t.Fatalf("unexpected ip: %s", ip)
				}
				return "mx", nil
			},
			want: "MX",
		},
		{
			name: "resolver error returns empty",
			resolver: func(ip string) (string, error) {
				return "", assertError("boom")
			},
			want: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "203.0.113.4:80"
			if tc.setup != nil {
				tc.setup(req)
			}
			got := ResolveCountry(req, tc.resolver)
			if got != tc.want {
				t.Fatalf("ResolveCountry() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLocaleFromContext(t *testing.T) {
	ctx := context.Background()
	if got := LocaleFromContext(ctx); got != "en" {
		t.Fatalf("LocaleFromContext() default = %q, want %q", got, "en")
	}
	ctx = context.WithValue(ctx, LocaleKey, "pt")
	if got := LocaleFromContext(ctx); got != "pt" {
		t.Fatalf("LocaleFromContext() with value = %q, want %q", got, "pt")
	}
}

func TestSignAndVerifyJWT(t *testing.T) {
	token, err := SignJWT("sekrit", "u1", "es", time.Hour)
	if err != nil {
		t.Fatalf("SignJWT() error = %v", err)
	}
	claims, err := VerifyJWT("sekrit", token)
	if err != nil {
		t.Fatalf("VerifyJWT() error = %v", err)
	}
	if claims.Subject != "u1" {
		t.Fatalf("Subject = %q, want %q", claims.Subject, "u1")
	}
	if claims.Locale != "es" {
		t.Fatalf("Locale = %q, want %q", claims.Locale, "es")
	}
	if _, err := VerifyJWT("wrong-secret", token); err == nil {
		t.Fatal("VerifyJWT() with wrong secret succeeded, want error")
	}
	if _, err := VerifyJWT("sekrit", "not.a.token"); err == nil {
		t.Fatal("VerifyJWT() with garbage token succeeded, want error")
	}
}
