package auth

import (
	"context"
	"testing"

	"brandgate/internal/platform/brand"
	"brandgate/internal/platform/identity"
	"brandgate/internal/platform/models"
)

type stubProvider struct {
	signUpCalls  int
	signInCalls  int
	lastMeta     map[string]string
	lastRedirect string
	signUpErr    *identity.Error
	signInErr    *identity.Error
}

func (s *stubProvider) SignUp(ctx context.Context, cred identity.Credentials, metadata map[string]string) (*identity.Session, *identity.Error) {
	s.signUpCalls++
	s.lastMeta = metadata
	if s.signUpErr != nil {
		return nil, s.signUpErr
	}
	return &identity.Session{
		AccessToken: "token",
		TokenType:   "bearer",
		User: &identity.User{
			ID:       "usr_1",
			Email:    cred.Email,
			Metadata: metadata,
		},
	}, nil
}

func (s *stubProvider) SignIn(ctx context.Context, cred identity.Credentials) (*identity.Session, *identity.Error) {
	s.signInCalls++
	if s.signInErr != nil {
		return nil, s.signInErr
	}
	return &identity.Session{AccessToken: "token", User: &identity.User{ID: "usr_1", Email: cred.Email}}, nil
}

func (s *stubProvider) SignOut(ctx context.Context, accessToken string) *identity.Error {
	return nil
}

func (s *stubProvider) ResetPassword(ctx context.Context, email, redirectTo string) *identity.Error {
	s.lastRedirect = redirectTo
	return nil
}

func (s *stubProvider) UpdatePassword(ctx context.Context, accessToken, newPassword string) *identity.Error {
	return nil
}

type stubProfileStore struct {
	profiles []*models.Profile
	brands   []brand.ID
}

func (s *stubProfileStore) CreateProfile(brandID brand.ID, profile *models.Profile) error {
	s.brands = append(s.brands, brandID)
	s.profiles = append(s.profiles, profile)
	return nil
}

func newTestGateway(provider identity.Provider, store ProfileStore) *Gateway {
	registry := brand.Default()
	return NewGateway(registry.Get(brand.Acme), brand.NewResolver(registry), provider, store, "https://brandgate.example.com")
}

func TestGateway_SignUp_UnrecognizedDomain(t *testing.T) {
	provider := &stubProvider{}
	gateway := newTestGateway(provider, nil)

	_, authErr := gateway.SignUp(context.Background(), SignUpRequest{
		Email:    "user@unknown.org",
		Password: "secret",
	})

	if authErr == nil {
		t.Fatal("Expected error for unrecognized domain, got nil")
	}
	if authErr.Kind != KindUnrecognizedDomain {
		t.Errorf("Expected kind %q, got %q", KindUnrecognizedDomain, authErr.Kind)
	}
	if provider.signUpCalls != 0 {
		t.Errorf("Expected no provider call for unrecognized domain, got %d", provider.signUpCalls)
	}
}

func TestGateway_SignUp_StampsBrand(t *testing.T) {
	provider := &stubProvider{}
	store := &stubProfileStore{}
	gateway := newTestGateway(provider, store)

	session, authErr := gateway.SignUp(context.Background(), SignUpRequest{
		Email:    "test@acme.com",
		Password: "secret",
		FullName: "Test User",
	})

	if authErr != nil {
		t.Fatalf("Expected success, got %v", authErr)
	}
	if provider.signUpCalls != 1 {
		t.Errorf("Expected one provider call, got %d", provider.signUpCalls)
	}
	if session.User.Metadata["brand_id"] != "acme" {
		t.Errorf("Expected brand tag acme, got %q", session.User.Metadata["brand_id"])
	}

	if len(store.profiles) != 1 {
		t.Fatalf("Expected one profile write, got %d", len(store.profiles))
	}
	if store.brands[0] != brand.Acme {
		t.Errorf("Expected profile routed to acme schema, got %q", store.brands[0])
	}
	if store.profiles[0].BrandID != "acme" {
		t.Errorf("Expected profile brand acme, got %q", store.profiles[0].BrandID)
	}
}

func TestGateway_SignUp_WrongBrand(t *testing.T) {
	provider := &stubProvider{}
	gateway := newTestGateway(provider, nil)

	// globex.com resolves, but this gateway is bound to acme
	_, authErr := gateway.SignUp(context.Background(), SignUpRequest{
		Email:    "user@globex.com",
		Password: "secret",
	})

	if authErr == nil || authErr.Kind != KindUnrecognizedDomain {
		t.Errorf("Expected unrecognized domain for cross-brand email, got %v", authErr)
	}
	if provider.signUpCalls != 0 {
		t.Errorf("Expected no provider call, got %d", provider.signUpCalls)
	}
}

func TestGateway_ResetPassword_PermitsUnknownDomain(t *testing.T) {
	// Reset is deliberately permissive, unlike sign-up.
	gateway := newTestGateway(&stubProvider{}, nil)

	if authErr := gateway.ResetPassword(context.Background(), "user@unknown.org"); authErr != nil {
		t.Errorf("Expected permissive reset for unknown domain, got %v", authErr)
	}
}

func TestGateway_ResetPassword_RedirectTarget(t *testing.T) {
	t.Run("Brand Redirect", func(t *testing.T) {
		provider := &stubProvider{}
		gateway := newTestGateway(provider, nil)

		gateway.ResetPassword(context.Background(), "test@acme.com")

		if provider.lastRedirect != "https://app.acme.com/auth/callback" {
			t.Errorf("Expected brand redirect URL, got %q", provider.lastRedirect)
		}
	})

	t.Run("Site Fallback", func(t *testing.T) {
		provider := &stubProvider{}
		registry := brand.Default()
		cfg := *registry.Get(brand.Acme)
		cfg.AuthRedirectURL = ""
		gateway := NewGateway(&cfg, brand.NewResolver(registry), provider, nil, "https://brandgate.example.com")

		gateway.ResetPassword(context.Background(), "test@acme.com")

		if provider.lastRedirect != "https://brandgate.example.com" {
			t.Errorf("Expected site public URL fallback, got %q", provider.lastRedirect)
		}
	})
}

func TestGateway_UpdatePassword_RequiresSession(t *testing.T) {
	gateway := newTestGateway(&stubProvider{}, nil)

	authErr := gateway.UpdatePassword(context.Background(), "", "newpass")
	if authErr == nil || authErr.Kind != KindUnauthorized {
		t.Errorf("Expected unauthorized without session, got %v", authErr)
	}
}

func TestGateway_OnAuthStateChange(t *testing.T) {
	provider := &stubProvider{}
	gateway := newTestGateway(provider, nil)

	var events []Event
	sub := gateway.OnAuthStateChange(func(event Event, session *identity.Session) {
		events = append(events, event)
	})

	gateway.SignIn(context.Background(), "test@acme.com", "secret")
	gateway.SignOut(context.Background(), "token")

	if len(events) != 2 || events[0] != EventSignedIn || events[1] != EventSignedOut {
		t.Errorf("Expected [SIGNED_IN, SIGNED_OUT], got %v", events)
	}

	sub.Unsubscribe()
	gateway.SignIn(context.Background(), "test@acme.com", "secret")

	if len(events) != 2 {
		t.Errorf("Expected no notifications after unsubscribe, got %d events", len(events))
	}
}

func TestGateway_ProviderErrorVerbatim(t *testing.T) {
	provider := &stubProvider{signInErr: &identity.Error{Status: 400, Message: "Invalid login credentials"}}
	gateway := newTestGateway(provider, nil)

	_, authErr := gateway.SignIn(context.Background(), "test@acme.com", "wrong")
	if authErr == nil {
		t.Fatal("Expected error, got nil")
	}
	if authErr.Message != "Invalid login credentials" {
		t.Errorf("Expected provider message verbatim, got %q", authErr.Message)
	}
	if authErr.Kind != KindInvalidInput {
		t.Errorf("Expected kind %q, got %q", KindInvalidInput, authErr.Kind)
	}
}
