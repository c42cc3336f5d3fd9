package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/jinzhu/copier"
	"golang.org/x/exp/slog"

	"github.com/famhub/family-idm/pkg/client"
	idmerr "github.com/famhub/family-idm/pkg/errors"
	"github.com/famhub/family-idm/pkg/login"
	"github.com/famhub/family-idm/pkg/sessions"
	"github.com/famhub/family-idm/pkg/user"
)

// Handle exposes password signup, login and the current-user endpoint
type Handle struct {
	loginService *login.Service
}

// NewHandle creates a new login API handle
func NewHandle(loginService *login.Service) Handle {
	return Handle{
		loginService: loginService,
	}
}

type SignupRequest struct {
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	Password    string `json:"password"`
	Name        string `json:"name,omitempty"`
}

type SignupResponse struct {
	UserID string `json:"user_id"`
}

type LoginRequest struct {
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	Password    string `json:"password"`
}

type LoginResponse struct {
	User   user.Summary       `json:"user"`
	Tokens sessions.TokenPair `json:"tokens"`
}

type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// Signup handles POST /signup
func (h Handle) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		slog.Error("Failed to decode request body", "err", err)
		respondErr(w, r, idmerr.InvalidInput("body", "malformed JSON"))
		return
	}

	var params login.SignupParams
	if err := copier.Copy(&params, &req); err != nil {
		respondErr(w, r, idmerr.InternalWrap(err, "failed to map request"))
		return
	}

	userID, err := h.loginService.Signup(r.Context(), params)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, SignupResponse{UserID: userID.String()})
}

// Login handles POST /login
func (h Handle) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		slog.Error("Failed to decode request body", "err", err)
		respondErr(w, r, idmerr.InvalidInput("body", "malformed JSON"))
		return
	}

	result, err := h.loginService.Login(r.Context(), login.LoginParams{
		Email:       req.Email,
		Phone:       req.Phone,
		CountryCode: req.CountryCode,
		Password:    req.Password,
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, LoginResponse{
		User:   result.User,
		Tokens: result.Tokens,
	})
}

// GetMe handles GET /me. Requires the auth middleware chain.
func (h Handle) GetMe(w http.ResponseWriter, r *http.Request) {
	authUser := client.GetAuthUser(r.Context())
	if authUser == nil {
		respondErr(w, r, idmerr.Unauthorized("not authenticated"))
		return
	}

	summary, err := h.loginService.GetMe(r.Context(), authUser.UserID)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, summary)
}

// Routes registers the public signup and login endpoints
func Routes(r chi.Router, handle Handle) {
	r.Post("/signup", handle.Signup)
	r.Post("/login", handle.Login)
}

// AuthRoutes registers the endpoints that require an authenticated user
func AuthRoutes(r chi.Router, handle Handle) {
	r.Get("/me", handle.GetMe)
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
