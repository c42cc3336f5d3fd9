package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/exp/slog"

	idmerr "github.com/famhub/family-idm/pkg/errors"
	"github.com/famhub/family-idm/pkg/sessions"
	"github.com/famhub/family-idm/pkg/tokens"
)

// Handle exposes refresh and logout over HTTP
type Handle struct {
	sessionService *sessions.Service
}

// NewHandle creates a new sessions API handle
func NewHandle(sessionService *sessions.Service) Handle {
	return Handle{
		sessionService: sessionService,
	}
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshResponse struct {
	AccessToken tokens.TokenValue `json:"access_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// Refresh handles POST /token/refresh. The refresh token is not rotated;
// the same one stays valid until logout or expiry.
func (h Handle) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		slog.Error("Failed to decode request body", "err", err)
		respondErr(w, r, idmerr.InvalidInput("body", "malformed JSON"))
		return
	}

	access, err := h.sessionService.RefreshAccess(r.Context(), req.RefreshToken)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RefreshResponse{AccessToken: access})
}

// Logout handles POST /logout. Revocation is idempotent, so logging out
// twice with the same token still returns 200.
func (h Handle) Logout(w http.ResponseWriter, r *http.Request) {
	var req LogoutRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		slog.Error("Failed to decode request body", "err", err)
		respondErr(w, r, idmerr.InvalidInput("body", "malformed JSON"))
		return
	}

	if err := h.sessionService.Revoke(r.Context(), req.RefreshToken); err != nil {
		respondErr(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, LogoutResponse{Message: "Logged out"})
}

// Routes registers the session endpoints
func Routes(r chi.Router, handle Handle) {
	r.Post("/token/refresh", handle.Refresh)
	r.Post("/logout", handle.Logout)
}

func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	code := idmerr.GetCode(err)
	message := "internal error"
	var ie *idmerr.Error
	if errors.As(err, &ie) {
		message = ie.Message
	}
	render.Status(r, idmerr.MapErrorCodeToHTTPStatus(code))
	render.JSON(w, r, ErrorResponse{Code: string(code), Error: message})
}
