package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/jinzhu/copier"
	"golang.org/x/exp/slog"

	idmerr "github.com/famhub/family-idm/pkg/errors"
	"github.com/famhub/family-idm/pkg/otp"
	"github.com/famhub/family-idm/pkg/sessions"
	"github.com/famhub/family-idm/pkg/user"
)

// Handle exposes OTP issuance and verification over HTTP
type Handle struct {
	otpService *otp.Service
}

// NewHandle creates a new OTP API handle
func NewHandle(otpService *otp.Service) Handle {
	return Handle{
		otpService: otpService,
	}
}

type SendCodeRequest struct {
	Target  string `json:"target"`
	Purpose string `json:"purpose"`
}

type SendCodeResponse struct {
	Message          string `json:"message"`
	ExpiresInMinutes int    `json:"expires_in_minutes"`
}

type VerifyCodeRequest struct {
	Target string `json:"target"`
	Code   string `json:"code"`
	Name   string `json:"name,omitempty"`
}

type VerifyCodeResponse struct {
	User   user.Summary       `json:"user"`
	Tokens sessions.TokenPair `json:"tokens"`
}

type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// SendCode handles POST /send
func (h Handle) SendCode(w http.ResponseWriter, r *http.Request) {
	var req SendCodeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		slog.Error("Failed to decode request body", "err", err)
		respondErr(w, r, idmerr.InvalidInput("body", "malformed JSON"))
		return
	}

	minutes, err := h.otpService.Issue(r.Context(), req.Target, otp.Purpose(req.Purpose))
	if err != nil {
		respondErr(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, SendCodeResponse{
		Message:          "Code sent",
		ExpiresInMinutes: minutes,
	})
}

// VerifyCode handles POST /verify
func (h Handle) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req VerifyCodeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		slog.Error("Failed to decode request body", "err", err)
		respondErr(w, r, idmerr.InvalidInput("body", "malformed JSON"))
		return
	}

	result, err := h.otpService.Verify(r.Context(), req.Target, req.Code, otp.ProfileHint{Name: req.Name})
	if err != nil {
		respondErr(w, r, err)
		return
	}

	var resp VerifyCodeResponse
	if err := copier.Copy(&resp, &result); err != nil {
		slog.Error("Failed to map verify result", "err", err)
		respondErr(w, r, idmerr.InternalWrap(err, "failed to build response"))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// Routes registers the OTP endpoints
func Routes(r chi.Router, handle Handle) {
	r.Post("/send", handle.SendCode)
	r.Post("/verify", handle.VerifyCode)
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
