package auth

import (
	"context"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"

	"brandgate/internal/platform/brand"
	"brandgate/internal/platform/identity"
	"brandgate/internal/platform/models"
)

// Event is a session state transition observed from the identity provider.
type Event string

const (
	EventSignedIn       Event = "SIGNED_IN"
	EventSignedOut      Event = "SIGNED_OUT"
	EventTokenRefreshed Event = "TOKEN_REFRESHED"
)

// ProfileStore routes profile writes to a brand's schema.
type ProfileStore interface {
	CreateProfile(brandID brand.ID, profile *models.Profile) error
}

// Gateway mediates all identity-provider operations for a single brand and
// stamps brand context onto accounts at sign-up. One gateway instance exists
// per brand; Brand() is never re-derived per call.
type Gateway struct {
	brand    *brand.Config
	resolver *brand.Resolver
	provider identity.Provider
	profiles ProfileStore
	// siteURL is the public site root, used as the recovery redirect when
	// the brand carries no redirect URL of its own.
	siteURL string

	mu     sync.Mutex
	subs   map[int]func(Event, *identity.Session)
	nextID int
}

func NewGateway(cfg *brand.Config, resolver *brand.Resolver, provider identity.Provider, profiles ProfileStore, siteURL string) *Gateway {
	return &Gateway{
		brand:    cfg,
		resolver: resolver,
		provider: provider,
		profiles: profiles,
		siteURL:  siteURL,
		subs:     make(map[int]func(Event, *identity.Session)),
	}
}

// Brand returns the config bound to this gateway instance.
func (g *Gateway) Brand() *brand.Config {
	return g.brand
}

type SignUpRequest struct {
	Email    string
	Password string
	// BrandID is optional; when empty it is derived from the email domain.
	BrandID  brand.ID
	FullName string
	Metadata map[string]string
}

// SignUp resolves the brand, rejects unrecognized domains before any
// provider call, and tags the created account with the brand id. The new
// account's profile row lands in the brand's schema.
func (g *Gateway) SignUp(ctx context.Context, req SignUpRequest) (*identity.Session, *AuthError) {
	brandID := req.BrandID
	if brandID == "" {
		resolved, ok := g.resolver.Resolve(req.Email)
		if !ok {
			return nil, &AuthError{Kind: KindUnrecognizedDomain, Message: "email domain is not recognized"}
		}
		brandID = resolved
	}
	if brandID != g.brand.ID {
		return nil, &AuthError{Kind: KindUnrecognizedDomain, Message: "email domain is not recognized for this brand"}
	}

	metadata := map[string]string{"brand_id": string(brandID)}
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	if req.FullName != "" {
		metadata["full_name"] = req.FullName
	}

	session, perr := g.provider.SignUp(ctx, identity.Credentials{Email: req.Email, Password: req.Password}, metadata)
	if perr != nil {
		return nil, translate(perr)
	}

	if g.profiles != nil && session.User != nil {
		profile := &models.Profile{
			UserID:      session.User.ID,
			Email:       session.User.Email,
			BrandID:     string(brandID),
			DisplayName: req.FullName,
			CreatedAt:   session.User.CreatedAt,
			UpdatedAt:   session.User.CreatedAt,
		}
		if err := g.profiles.CreateProfile(brandID, profile); err != nil {
			// The provider account exists; the profile row can be backfilled.
			log.Error().Err(err).Str("brand", string(brandID)).Str("user", session.User.ID).
				Msg("failed to create tenant profile")
		}
	}

	g.publish(EventSignedIn, session)
	return session, nil
}

// SignIn delegates to the provider. Brand membership is not re-verified on
// login: tenant assignment is stable once set at sign-up.
func (g *Gateway) SignIn(ctx context.Context, email, password string) (*identity.Session, *AuthError) {
	session, perr := g.provider.SignIn(ctx, identity.Credentials{Email: email, Password: password})
	if perr != nil {
		return nil, translate(perr)
	}

	g.publish(EventSignedIn, session)
	return session, nil
}

func (g *Gateway) SignOut(ctx context.Context, accessToken string) *AuthError {
	if perr := g.provider.SignOut(ctx, accessToken); perr != nil {
		return translate(perr)
	}

	g.publish(EventSignedOut, nil)
	return nil
}

// ResetPassword delegates without gating on brand resolution: unknown
// domains are treated permissively here, unlike SignUp.
func (g *Gateway) ResetPassword(ctx context.Context, email string) *AuthError {
	if perr := g.provider.ResetPassword(ctx, email, g.recoveryRedirect()); perr != nil {
		return translate(perr)
	}
	return nil
}

func (g *Gateway) recoveryRedirect() string {
	if g.brand.AuthRedirectURL != "" {
		return g.brand.AuthRedirectURL
	}
	return g.siteURL
}

// UpdatePassword requires an active session token.
func (g *Gateway) UpdatePassword(ctx context.Context, accessToken, newPassword string) *AuthError {
	if accessToken == "" {
		return &AuthError{Kind: KindUnauthorized, Message: "active session required"}
	}
	if perr := g.provider.UpdatePassword(ctx, accessToken, newPassword); perr != nil {
		return translate(perr)
	}
	return nil
}

// Subscription is a handle on auth state notifications. Exactly one handle
// should be held per active surface and released on teardown; a leaked
// handle means duplicate notifications on the next subscribe.
type Subscription struct {
	gateway *Gateway
	id      int
}

func (s *Subscription) Unsubscribe() {
	s.gateway.mu.Lock()
	defer s.gateway.mu.Unlock()
	delete(s.gateway.subs, s.id)
}

// OnAuthStateChange registers a callback invoked on every session
// transition.
func (g *Gateway) OnAuthStateChange(fn func(Event, *identity.Session)) *Subscription {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nextID++
	id := g.nextID
	g.subs[id] = fn
	return &Subscription{gateway: g, id: id}
}

func (g *Gateway) publish(event Event, session *identity.Session) {
	g.mu.Lock()
	callbacks := make([]func(Event, *identity.Session), 0, len(g.subs))
	for _, fn := range g.subs {
		callbacks = append(callbacks, fn)
	}
	g.mu.Unlock()

	for _, fn := range callbacks {
		fn(event, session)
	}
}

func translate(perr *identity.Error) *AuthError {
	switch perr.Status {
	case http.StatusBadRequest:
		return &AuthError{Kind: KindInvalidInput, Message: perr.Message}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Kind: KindUnauthorized, Message: perr.Message}
	case http.StatusConflict:
		return &AuthError{Kind: KindConflict, Message: perr.Message}
	default:
		return &AuthError{Kind: KindUpstream, Message: perr.Message}
	}
}
