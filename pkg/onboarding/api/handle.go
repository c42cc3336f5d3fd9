package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/exp/slog"

	"github.com/famhub/family-idm/pkg/client"
	idmerr "github.com/famhub/family-idm/pkg/errors"
	"github.com/famhub/family-idm/pkg/onboarding"
)

// birthDateLayout is the wire format for birth dates
const birthDateLayout = "2006-01-02"

// Handle exposes profile completion over HTTP
type Handle struct {
	onboardingService *onboarding.Service
}

// NewHandle creates a new onboarding API handle
func NewHandle(onboardingService *onboarding.Service) Handle {
	return Handle{
		onboardingService: onboardingService,
	}
}

type LocationRequest struct {
	Name      string  `json:"name"`
	Address   *string `json:"address,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type CompleteProfileRequest struct {
	Name       *string           `json:"name,omitempty"`
	Gender     *string           `json:"gender,omitempty"`
	BirthDate  *string           `json:"birth_date,omitempty"` // YYYY-MM-DD
	AvatarURL  *string           `json:"avatar_url,omitempty"`
	FamilyName string            `json:"family_name"`
	Role       string            `json:"role"`
	Locations  []LocationRequest `json:"locations,omitempty"`
}

type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// CompleteProfile handles POST /profile/complete. Requires the auth
// middleware chain.
func (h Handle) CompleteProfile(w http.ResponseWriter, r *http.Request) {
	authUser := client.GetAuthUser(r.Context())
	if authUser == nil {
		respondErr(w, r, idmerr.Unauthorized("not authenticated"))
		return
	}

	var req CompleteProfileRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		slog.Error("Failed to decode request body", "err", err)
		respondErr(w, r, idmerr.InvalidInput("body", "malformed JSON"))
		return
	}

	params, err := toParams(req)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	params.UserID = authUser.UserID

	result, err := h.onboardingService.CompleteProfile(r.Context(), params)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, result)
}

func toParams(req CompleteProfileRequest) (onboarding.CompleteProfileParams, error) {
	params := onboarding.CompleteProfileParams{
		Profile: onboarding.ProfileUpdate{
			Name:      req.Name,
			Gender:    req.Gender,
			AvatarURL: req.AvatarURL,
		},
		FamilyName: req.FamilyName,
		Role:       onboarding.Role(req.Role),
	}

	if req.BirthDate != nil {
		birthDate, err := time.Parse(birthDateLayout, *req.BirthDate)
		if err != nil {
			return onboarding.CompleteProfileParams{}, idmerr.InvalidInput("birth_date", "must be YYYY-MM-DD")
		}
		params.Profile.BirthDate = &birthDate
	}

	for _, loc := range req.Locations {
		params.Locations = append(params.Locations, onboarding.LocationParams{
			Name:      loc.Name,
			Address:   loc.Address,
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
		})
	}

	return params, nil
}

// Routes registers the onboarding endpoints
func Routes(r chi.Router, handle Handle) {
	r.Post("/profile/complete", handle.CompleteProfile)
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
