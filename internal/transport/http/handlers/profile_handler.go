package handlers

import (
	"errors"
	"net/http"

	"github.com/nkarpovich/duet-backend/internal/domain/model"
	authsvc "github.com/nkarpovich/duet-backend/internal/services/auth"
	mediasvc "github.com/nkarpovich/duet-backend/internal/services/media"
	profilessvc "github.com/nkarpovich/duet-backend/internal/services/profiles"
	"github.com/nkarpovich/duet-backend/internal/transport/http/dto"
	httperrors "github.com/nkarpovich/duet-backend/internal/transport/http/errors"
)

type ProfileHandler struct {
	profiles *profilessvc.Service
	media    *mediasvc.Service
}

func NewProfileHandler(profiles *profilessvc.Service, media *mediasvc.Service) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, media: media}
}

func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "authentication required")
		return
	}

	h.writeProfile(w, r, identity.UserID, http.StatusOK)
}

// Public serves any user's profile without authentication. The gallery is
// attached so profile pages render without an extra round trip.
func (h *ProfileHandler) Public(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userId")
	if !ok {
		writeBadRequest(w, "invalid user id")
		return
	}

	h.writeProfile(w, r, userID, http.StatusOK)
}

func (h *ProfileHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	if h.profiles == nil {
		writeInternal(w, "profile service is unavailable")
		return
	}

	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "authentication required")
		return
	}

	var req dto.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	profile, err := h.profiles.UpdateCore(r.Context(), identity.UserID, profilessvc.CoreInput{
		Name:   req.Name,
		Age:    req.Age,
		Gender: req.Gender,
		Bio:    req.Bio,
	})
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toProfileResponse(profile, nil))
}

func (h *ProfileHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	if h.profiles == nil {
		writeInternal(w, "profile service is unavailable")
		return
	}

	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "authentication required")
		return
	}

	var req dto.ProfileDetailsPayload
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	details, err := h.profiles.UpdateDetails(r.Context(), identity.UserID, model.ProfileDetails{
		Occupation: req.Occupation,
		Education:  req.Education,
		HeightCM:   req.HeightCM,
		Smoking:    req.Smoking,
		Drinking:   req.Drinking,
		LookingFor: req.LookingFor,
		Interests:  req.Interests,
		Languages:  req.Languages,
	})
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ProfileDetailsPayload{
		Occupation: details.Occupation,
		Education:  details.Education,
		HeightCM:   details.HeightCM,
		Smoking:    details.Smoking,
		Drinking:   details.Drinking,
		LookingFor: details.LookingFor,
		Interests:  details.Interests,
		Languages:  details.Languages,
	})
}

func (h *ProfileHandler) writeProfile(w http.ResponseWriter, r *http.Request, userID int64, status int) {
	if h.profiles == nil {
		writeInternal(w, "profile service is unavailable")
		return
	}

	profile, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		handleProfileError(w, err)
		return
	}

	var photos []dto.PhotoResponse
	if h.media != nil {
		items, err := h.media.ListPhotos(r.Context(), userID)
		if err == nil {
			photos = toPhotoResponses(items)
		}
	}

	httperrors.Write(w, status, toProfileResponse(profile, photos))
}

func handleProfileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, profilessvc.ErrValidation):
		writeBadRequest(w, "request validation failed")
	case errors.Is(err, profilessvc.ErrNotFound):
		writeNotFound(w, "profile not found")
	default:
		writeInternal(w, "internal server error")
	}
}

func toProfileResponse(profile model.Profile, photos []dto.PhotoResponse) dto.ProfileResponse {
	return dto.ProfileResponse{
		UserID:    profile.UserID,
		Name:      profile.Name,
		Age:       profile.Age,
		Gender:    profile.Gender,
		Bio:       profile.Bio,
		AvatarURL: profile.AvatarURL,
		Photos:    photos,
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	}
}

func toPhotoResponses(items []model.Photo) []dto.PhotoResponse {
	photos := make([]dto.PhotoResponse, 0, len(items))
	for _, item := range items {
		photos = append(photos, dto.PhotoResponse{
			ID:        item.ID,
			Order:     item.Position,
			URL:       item.URL,
			CreatedAt: item.CreatedAt,
		})
	}
	return photos
}
