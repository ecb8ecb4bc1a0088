package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Profile is the signed-in user as reported by Google.
type Profile struct {
	Subject    string `json:"sub"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Email      string `json:"email"`
	Picture    string `json:"picture"`
}

// DisplayName prefers the full name, then the given name, then the email.
func (p Profile) DisplayName() string {
	switch {
	case p.Name != "":
		return p.Name
	case p.GivenName != "":
		return p.GivenName
	default:
		return p.Email
	}
}

type idTokenClaims struct {
	jwt.RegisteredClaims
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Email      string `json:"email"`
	Picture    string `json:"picture"`
}

// ErrNoIDToken is returned when the token response carried no id_token.
var ErrNoIDToken = errors.New("no id_token in token response")

// ProfileFromIDToken reads the profile claims of a Google id_token. The
// signature is not checked; the token came straight from the token endpoint.
func ProfileFromIDToken(raw string) (Profile, error) {
	if raw == "" {
		return Profile{}, ErrNoIDToken
	}
	var claims idTokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return Profile{}, fmt.Errorf("parse id_token: %w", err)
	}
	if claims.Subject == "" {
		return Profile{}, errors.New("id_token has no subject")
	}
	return Profile{
		Subject:    claims.Subject,
		Name:       claims.Name,
		GivenName:  claims.GivenName,
		FamilyName: claims.FamilyName,
		Email:      claims.Email,
		Picture:    claims.Picture,
	}, nil
}

// FetchProfile asks the userinfo endpoint. client must attach the bearer token.
func FetchProfile(ctx context.Context, client *http.Client, opts ...option.ClientOption) (Profile, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)
	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return Profile{}, fmt.Errorf("create userinfo service: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return Profile{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	return Profile{
		Subject:    info.Id,
		Name:       info.Name,
		GivenName:  info.GivenName,
		FamilyName: info.FamilyName,
		Email:      info.Email,
		Picture:    info.Picture,
	}, nil
}

// ResolveProfile derives the profile from the token's id_token and falls back
// to the userinfo endpoint.
func ResolveProfile(ctx context.Context, tok *oauth2.Token, opts ...option.ClientOption) (Profile, error) {
	raw, _ := tok.Extra("id_token").(string)
	if p, err := ProfileFromIDToken(raw); err == nil {
		return p, nil
	}
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(tok))
	return FetchProfile(ctx, client, opts...)
}
