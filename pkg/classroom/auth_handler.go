package classroom

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/semillerodigital/classroom-progress/internal/config"
	"github.com/semillerodigital/classroom-progress/internal/event_bus"
	"github.com/semillerodigital/classroom-progress/internal/rest"
	"github.com/semillerodigital/classroom-progress/pkg/user"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	classroomapi "google.golang.org/api/classroom/v1"
)

var ErrUnauthenticated = errors.New("user is not authenticated with Google Classroom")

type googleAuthRedirect struct {
	RedirectUrl string `json:"redirectUrl"`
}

var scopes = []string{
	classroomapi.ClassroomCoursesReadonlyScope,
	classroomapi.ClassroomCourseworkMeReadonlyScope,
	classroomapi.ClassroomRostersReadonlyScope,
	classroomapi.ClassroomAnnouncementsReadonlyScope,
	"openid",
	"email",
	"profile",
}

type GoogleAuth struct {
	tokens      TokenRepository
	userService user.Provider
	eventBus    *event_bus.EventBus
	oauthConfig *oauth2.Config
}

func NewGoogleAuth(tokens TokenRepository, userService user.Provider, eventBus *event_bus.EventBus, cfg config.Application) *GoogleAuth {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.Google.ClientId,
		ClientSecret: cfg.Google.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.Host + "/api/integrations/google/auth/callback",
		Scopes:       scopes,
	}

	return &GoogleAuth{tokens: tokens, userService: userService, eventBus: eventBus, oauthConfig: oauthConfig}
}

// OAuthLogin godoc
// @Summary Start Google Classroom authorization
// @Tags Classroom
// @Produce json
// @Param finalUrl query string false "Where to send the browser after the callback"
// @Success 200 {object} googleAuthRedirect
// @Router /api/integrations/google/auth/login [get]
// @Security XUserId
func (g *GoogleAuth) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	currentUser, err := g.userService.GetCurrentUser(r.Context())
	if err != nil {
		log.Error("unable to retrieve current user: ", err)
		rest.WriteError(w, http.StatusInternalServerError, "unable to retrieve current user", "")
		return
	}

	stateNonce := uuid.New().String()
	finalUrl := r.URL.Query().Get("finalUrl")

	if err := g.tokens.StoreNonce(r.Context(), currentUser.Id, stateNonce); err != nil {
		log.Errorf("failed to store Google auth nonce for user %d: %v", currentUser.Id, err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to handle Google authentication", "")
		return
	}

	log.Tracef("Redirecting to Google auth URL with nonce: %s", stateNonce)
	u := g.oauthConfig.AuthCodeURL(finalUrl+"|"+stateNonce, oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	rest.WriteJSON(w, http.StatusOK, googleAuthRedirect{RedirectUrl: u})
}

// OAuthCallback completes the code exchange and redirects the browser to the
// final URL given at login with success=true|false appended.
func (g *GoogleAuth) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.FormValue("code")
	state := r.FormValue("state")

	parts := strings.SplitN(state, "|", 2)
	if len(parts) != 2 {
		log.Warnf("malformed oauth state: %q", state)
		rest.WriteError(w, http.StatusBadRequest, "Invalid state", "")
		return
	}
	finalUrl, nonce := parts[0], parts[1]

	token, err := g.oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		log.Errorf("unable to exchange code for token: %v", err)
		http.Redirect(w, r, withSuccess(finalUrl, false), http.StatusFound)
		return
	}

	userId, err := g.tokens.StoreToken(r.Context(), nonce, token)
	if err != nil {
		log.Errorf("unable to store Google auth token for nonce: %v", err)
		http.Redirect(w, r, withSuccess(finalUrl, false), http.StatusFound)
		return
	}
	log.Debugf("Stored Google Classroom token for user %d", userId)

	event := event_bus.NewEvent(r.Context(), event_bus.ClassroomConnectedEvent, event_bus.ClassroomConnected{UserId: userId})
	if err := g.eventBus.Publish(event); err != nil {
		log.Warnf("connect handlers failed for user %d: %v", userId, err)
	}
	http.Redirect(w, r, withSuccess(finalUrl, true), http.StatusFound)
}

// IsAuthenticated godoc
// @Summary Check if the current user has connected Google Classroom
// @Tags Classroom
// @Success 200 {string} string "true"
// @Failure 404 "Not authenticated"
// @Router /api/integrations/google/auth [get]
// @Security XUserId
func (g *GoogleAuth) IsAuthenticated(w http.ResponseWriter, r *http.Request) {
	userId, err := user.CurrentId(r.Context())
	if err != nil {
		log.Error("unable to retrieve current user: ", err)
		rest.WriteError(w, http.StatusInternalServerError, "unable to retrieve current user", "")
		return
	}
	token, err := g.tokens.GetToken(r.Context(), userId)
	if err != nil {
		log.Error(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if token == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("true"))
}

// OAuthLogout removes the stored token and announces the disconnection.
func (g *GoogleAuth) OAuthLogout(w http.ResponseWriter, r *http.Request) {
	userId, err := user.CurrentId(r.Context())
	if err != nil {
		log.Error("unable to retrieve current user: ", err)
		rest.WriteError(w, http.StatusInternalServerError, "unable to retrieve current user", "")
		return
	}

	if err := g.tokens.DeleteToken(r.Context(), userId); err != nil {
		log.Errorf("failed to delete Google auth row for user %d: %v", userId, err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to handle Google authentication", "")
		return
	}

	event := event_bus.NewEvent(r.Context(), event_bus.ClassroomDisconnectedEvent, event_bus.ClassroomDisconnected{UserId: userId})
	if err := g.eventBus.Publish(event); err != nil {
		log.Warnf("disconnect handlers failed for user %d: %v", userId, err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// HTTPClient returns an authorized client for userId, or ErrUnauthenticated
// when no token is stored. Refreshed tokens are written back.
func (g *GoogleAuth) HTTPClient(ctx context.Context, userId int) (*http.Client, error) {
	token, err := g.tokens.GetToken(ctx, userId)
	if err != nil {
		log.Error(err)
		return nil, err
	}
	if token == nil {
		log.Debug("user is unauthenticated, authentication is required")
		return nil, ErrUnauthenticated
	}
	source := &persistingTokenSource{
		base:   g.oauthConfig.TokenSource(context.WithoutCancel(ctx), token),
		tokens: g.tokens,
		userId: userId,
		last:   token.AccessToken,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(token, source)), nil
}

type persistingTokenSource struct {
	base   oauth2.TokenSource
	tokens TokenRepository
	userId int

	mu   sync.Mutex
	last string
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token.AccessToken != s.last {
		if err := s.tokens.UpdateToken(context.Background(), s.userId, token); err != nil {
			log.Errorf("failed to persist refreshed token for user %d: %v", s.userId, err)
		} else {
			log.Debugf("Persisted refreshed Google token for user %d", s.userId)
		}
		s.last = token.AccessToken
	}
	return token, nil
}

func withSuccess(finalUrl string, success bool) string {
	u, err := url.Parse(finalUrl)
	if err != nil {
		return fmt.Sprintf("%s?success=%t", finalUrl, success)
	}
	q := u.Query()
	q.Set("success", fmt.Sprintf("%t", success))
	u.RawQuery = q.Encode()
	return u.String()
}
