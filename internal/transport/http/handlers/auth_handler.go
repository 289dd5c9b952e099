package handlers

import (
	"errors"
	"net/http"
	"time"

	authsvc "github.com/nkarpovich/duet-backend/internal/services/auth"
	userssvc "github.com/nkarpovich/duet-backend/internal/services/users"
	"github.com/nkarpovich/duet-backend/internal/transport/http/dto"
	httperrors "github.com/nkarpovich/duet-backend/internal/transport/http/errors"
)

type AuthHandler struct {
	auth  *authsvc.Service
	users *userssvc.Service
}

func NewAuthHandler(auth *authsvc.Service, users *userssvc.Service) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil || h.users == nil {
		writeInternal(w, "auth service is unavailable")
		return
	}

	var req dto.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	gender := req.Gender
	if gender == "" {
		gender = "other"
	}

	account, err := h.users.Register(r.Context(), userssvc.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Age:      req.Age,
		Gender:   gender,
	})
	if err != nil {
		switch {
		case errors.Is(err, userssvc.ErrValidation):
			writeBadRequest(w, "request validation failed")
		case errors.Is(err, userssvc.ErrEmailTaken):
			writeConflict(w, "email already registered")
		default:
			writeInternal(w, "internal server error")
		}
		return
	}

	res, err := h.auth.Issue(r.Context(), account.ID, account.Role)
	if err != nil {
		writeInternal(w, "internal server error")
		return
	}

	httperrors.Write(w, http.StatusCreated, tokensResponse(res))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil || h.users == nil {
		writeInternal(w, "auth service is unavailable")
		return
	}

	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	account, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, userssvc.ErrValidation):
			writeBadRequest(w, "email and password are required")
		case errors.Is(err, userssvc.ErrInvalidCredentials):
			writeUnauthorized(w, "invalid email or password")
		default:
			writeInternal(w, "internal server error")
		}
		return
	}

	res, err := h.auth.Issue(r.Context(), account.ID, account.Role)
	if err != nil {
		writeInternal(w, "internal server error")
		return
	}

	httperrors.Write(w, http.StatusOK, tokensResponse(res))
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil {
		writeInternal(w, "auth service is unavailable")
		return
	}

	var req dto.RefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	res, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		handleAuthError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, tokensResponse(res))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil {
		writeInternal(w, "auth service is unavailable")
		return
	}

	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "authentication required")
		return
	}

	if err := h.auth.Logout(r.Context(), identity.SID); err != nil {
		handleAuthError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.LogoutResponse{OK: true})
}

// Verify confirms the presented access token maps to a live session. The
// auth middleware already did the work; this just reflects the identity.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "authentication required")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.VerifyResponse{
		OK: true,
		Me: dto.AuthMeResponse{ID: identity.UserID, Role: identity.Role},
	})
}

func handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authsvc.ErrInvalidInput):
		writeBadRequest(w, "request validation failed")
	case errors.Is(err, authsvc.ErrUnauthorized):
		writeUnauthorized(w, "authentication failed")
	default:
		writeInternal(w, "internal server error")
	}
}

func tokensResponse(res authsvc.AuthResult) dto.AuthTokensResponse {
	return dto.AuthTokensResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		ExpiresInSec: maxInt64(0, int64(time.Until(res.AccessExpires).Seconds())),
		Me: dto.AuthMeResponse{
			ID:   res.Me.ID,
			Role: res.Me.Role,
		},
	}
}
