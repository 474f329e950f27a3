// Package firebaseauth implements identity.Service against Firebase
// Authentication: the Admin SDK verifies ID tokens, while email/password
// sign-up and sign-in go through the Identity Toolkit REST API (the Admin
// SDK has no password-grant flow).
package firebaseauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"

	"github.com/ironwala/ironwala-api/internal/identity"
)

const identityToolkitURL = "https://identitytoolkit.googleapis.com/v1"

type Client struct {
	verifier   *auth.Client
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewClient wraps a Firebase Admin auth client. apiKey is the project's
// Web API key used for the REST password flows.
func NewClient(verifier *auth.Client, apiKey string) *Client {
	return &Client{
		verifier:   verifier,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		baseURL:    identityToolkitURL,
	}
}

var _ identity.Service = (*Client)(nil)

type credentialsRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type credentialsResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	Error        *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) SignUp(ctx context.Context, email, password string) (identity.Session, error) {
	return c.credentialsCall(ctx, "accounts:signUp", email, password)
}

func (c *Client) SignIn(ctx context.Context, email, password string) (identity.Session, error) {
	return c.credentialsCall(ctx, "accounts:signInWithPassword", email, password)
}

func (c *Client) VerifyToken(ctx context.Context, idToken string) (string, error) {
	tok, err := c.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", identity.ErrInvalidToken
	}
	return tok.UID, nil
}

func (c *Client) credentialsCall(ctx context.Context, endpoint, email, password string) (identity.Session, error) {
	payload, err := json.Marshal(credentialsRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return identity.Session{}, fmt.Errorf("firebaseauth: encode request: %w", err)
	}

	url := fmt.Sprintf("%s/%s?key=%s", c.baseURL, endpoint, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return identity.Session{}, fmt.Errorf("firebaseauth: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return identity.Session{}, fmt.Errorf("firebaseauth: %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	var body credentialsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return identity.Session{}, fmt.Errorf("firebaseauth: decode response: %w", err)
	}

	if body.Error != nil {
		return identity.Session{}, mapError(body.Error.Message)
	}

	return identity.Session{
		UserID:       body.LocalID,
		Email:        body.Email,
		IDToken:      body.IDToken,
		RefreshToken: body.RefreshToken,
	}, nil
}

// mapError translates Identity Toolkit error codes into the taxonomy the
// handlers surface to users.
func mapError(code string) error {
	switch {
	case strings.HasPrefix(code, "EMAIL_EXISTS"):
		return identity.ErrEmailInUse
	case strings.HasPrefix(code, "INVALID_EMAIL"), strings.HasPrefix(code, "MISSING_EMAIL"):
		return identity.ErrInvalidEmail
	case strings.HasPrefix(code, "INVALID_LOGIN_CREDENTIALS"),
		strings.HasPrefix(code, "INVALID_PASSWORD"),
		strings.HasPrefix(code, "EMAIL_NOT_FOUND"):
		return identity.ErrInvalidCredential
	case strings.HasPrefix(code, "WEAK_PASSWORD"), strings.HasPrefix(code, "MISSING_PASSWORD"):
		return identity.ErrWeakPassword
	default:
		return fmt.Errorf("firebaseauth: %s", code)
	}
}
