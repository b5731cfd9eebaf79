package auth

import (
	"strconv"

	"golang.org/x/oauth2"

	"intervals-coach/internal/config"
)

const (
	// intervals.icu OAuth endpoints
	AuthURL  = "https://intervals.icu/oauth/authorize"
	TokenURL = "https://intervals.icu/api/oauth/token"
)

// Scopes required for read-only analysis (intervals.icu uses comma-separated scopes)
var Scopes = []string{
	"ACTIVITY:READ,WELLNESS:READ,CALENDAR:READ",
}

// Config holds the OAuth client credentials
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g., "http://localhost:8089/callback"
}

// NewOAuthConfig creates an oauth2.Config from our Config
func NewOAuthConfig(cfg Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   AuthURL,
			TokenURL:  TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		RedirectURL: cfg.RedirectURL,
		Scopes:      Scopes,
	}
}

// AuthResult contains the token and athlete info from successful auth
type AuthResult struct {
	Token     *oauth2.Token
	AthleteID string
}

// ExtractAthleteID extracts the athlete ID from the token extras.
// intervals.icu returns {"athlete": {"id": "i12345", ...}} with the token.
func ExtractAthleteID(token *oauth2.Token) string {
	athlete, ok := token.Extra("athlete").(map[string]interface{})
	if !ok {
		return ""
	}
	switch id := athlete["id"].(type) {
	case string:
		return id
	case float64:
		return "i" + strconv.FormatInt(int64(id), 10)
	}
	return ""
}

// TokenFromConfig rebuilds the stored token, nil when no access token is saved
func TokenFromConfig(c config.IntervalsConfig) *oauth2.Token {
	if c.AccessToken == "" {
		return nil
	}
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       c.TokenExpiry,
	}
}

// StoreToken copies a token into the config
func StoreToken(c *config.Config, token *oauth2.Token) {
	c.Intervals.AccessToken = token.AccessToken
	c.Intervals.RefreshToken = token.RefreshToken
	c.Intervals.TokenExpiry = token.Expiry
}
