package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func testConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.example.com/auth",
			TokenURL: tokenURL,
		},
		Scopes: Scopes,
	}
}

func callback(t *testing.T, f *Flow, params url.Values) {
	resp, err := http.Get(f.RedirectURL() + "?" + params.Encode())
	if err != nil {
		t.Errorf("callback: %v", err)
		return
	}
	resp.Body.Close()
}

func TestFlow_ExchangesCode(t *testing.T) {
	var verifier string
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		verifier = r.PostForm.Get("code_verifier")
		if r.PostForm.Get("code") != "the-code" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "abc",
			"refresh_token": "r1",
			"token_type":    "Bearer",
			"expires_in":    3600,
			"id_token":      "header.payload.sig",
		})
	}))
	defer tokenSrv.Close()

	f, err := Start(testConfig(tokenSrv.URL))
	if err != nil {
		t.Skipf("no loopback port available: %v", err)
	}
	defer f.Close()

	authURL, err := url.Parse(f.URL())
	if err != nil {
		t.Fatal(err)
	}
	q := authURL.Query()
	if q.Get("code_challenge_method") != "S256" || q.Get("code_challenge") == "" {
		t.Errorf("expected PKCE challenge in %s", f.URL())
	}
	if q.Get("redirect_uri") != f.RedirectURL() {
		t.Errorf("expected redirect %s, got %s", f.RedirectURL(), q.Get("redirect_uri"))
	}

	go callback(t, f, url.Values{"code": {"the-code"}, "state": {q.Get("state")}})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	tok, err := f.Wait(ctx)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if tok.AccessToken != "abc" || tok.RefreshToken != "r1" {
		t.Errorf("unexpected token %+v", tok)
	}
	if id, _ := tok.Extra("id_token").(string); id != "header.payload.sig" {
		t.Errorf("expected id_token extra, got %q", id)
	}
	if verifier == "" {
		t.Error("expected code_verifier in exchange")
	}
}

func TestFlow_StateMismatch(t *testing.T) {
	f, err := Start(testConfig("http://127.0.0.1:1/token"))
	if err != nil {
		t.Skipf("no loopback port available: %v", err)
	}
	defer f.Close()

	go callback(t, f, url.Values{"code": {"c"}, "state": {"forged"}})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := f.Wait(ctx); !errors.Is(err, ErrStateMismatch) {
		t.Errorf("expected ErrStateMismatch, got %v", err)
	}
}

func TestFlow_Cancelled(t *testing.T) {
	f, err := Start(testConfig("http://127.0.0.1:1/token"))
	if err != nil {
		t.Skipf("no loopback port available: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadConfig(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(dir, "oauth_client.json")
	client := `{"installed":{"client_id":"id","client_secret":"s","auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token","redirect_uris":["http://localhost"]}}`
	if err := os.WriteFile(path, []byte(client), 0600); err != nil {
		t.Fatal(err)
	}
	conf, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if conf.ClientID != "id" || len(conf.Scopes) != 3 {
		t.Errorf("unexpected config %+v", conf)
	}
}
