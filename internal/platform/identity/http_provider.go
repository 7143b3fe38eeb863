package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"brandgate/internal/platform/config"
)

// HTTPProvider talks to a hosted GoTrue-style identity endpoint.
type HTTPProvider struct {
	baseURL    string
	anonKey    string
	serviceKey string
	client     *http.Client
}

func NewHTTPProvider(cfg config.IdentityConfig) *HTTPProvider {
	if cfg.BaseURL == "" || cfg.AnonKey == "" {
		log.Warn().Msg("identity provider credentials missing, client will operate with empty keys")
	}

	return &HTTPProvider{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		anonKey:    cfg.AnonKey,
		serviceKey: cfg.ServiceKey,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type signUpRequest struct {
	Email    string            `json:"email"`
	Password string            `json:"password"`
	Data     map[string]string `json:"data,omitempty"`
}

type passwordRequest struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

type providerError struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
}

func (e providerError) text() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Message != "":
		return e.Message
	case e.ErrorDescription != "":
		return e.ErrorDescription
	}
	return "identity provider request failed"
}

func (p *HTTPProvider) SignUp(ctx context.Context, cred Credentials, metadata map[string]string) (*Session, *Error) {
	body := signUpRequest{Email: cred.Email, Password: cred.Password, Data: metadata}

	var session Session
	if err := p.do(ctx, http.MethodPost, "/signup", "", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (p *HTTPProvider) SignIn(ctx context.Context, cred Credentials) (*Session, *Error) {
	body := signUpRequest{Email: cred.Email, Password: cred.Password}

	var session Session
	if err := p.do(ctx, http.MethodPost, "/token?grant_type=password", "", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (p *HTTPProvider) SignOut(ctx context.Context, accessToken string) *Error {
	return p.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
}

func (p *HTTPProvider) ResetPassword(ctx context.Context, email, redirectTo string) *Error {
	path := "/recover"
	if redirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectTo)
	}
	return p.do(ctx, http.MethodPost, path, "", passwordRequest{Email: email}, nil)
}

func (p *HTTPProvider) UpdatePassword(ctx context.Context, accessToken, newPassword string) *Error {
	return p.do(ctx, http.MethodPut, "/user", accessToken, passwordRequest{Password: newPassword}, nil)
}

func (p *HTTPProvider) do(ctx context.Context, method, path, accessToken string, body, out interface{}) *Error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Status: http.StatusInternalServerError, Message: err.Error()}
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return &Error{Status: http.StatusInternalServerError, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", p.anonKey)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	} else {
		req.Header.Set("Authorization", "Bearer "+p.anonKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return &Error{Status: http.StatusBadGateway, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var perr providerError
		_ = json.NewDecoder(resp.Body).Decode(&perr)
		return &Error{Status: resp.StatusCode, Message: perr.text()}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Error{Status: http.StatusBadGateway, Message: fmt.Sprintf("failed to decode provider response: %v", err)}
		}
	}
	return nil
}
