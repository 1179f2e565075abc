package handlers

import (
	"net/http"

	"github.com/RickkCastro/ElasNoJogo/internal/transport/http/dto"
	apierrors "github.com/RickkCastro/ElasNoJogo/internal/transport/http/errors"
)

func (h *Handlers) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var in dto.AuthRegisterRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, statusErrorInvalidArgument())
		return
	}

	pair, uid, err := h.svc.RegisterUser(r.Context(), in.Email, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AuthFromPair(pair, uid))
}

func (h *Handlers) LoginUser(w http.ResponseWriter, r *http.Request) {
	var in dto.AuthLoginRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, statusErrorInvalidArgument())
		return
	}

	pair, uid, err := h.svc.LoginUser(r.Context(), in.Email, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AuthFromPair(pair, uid))
}

func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var in dto.AuthRefreshRequest
	if err := decodeStrict(r, &in); err != nil || in.RefreshToken == "" {
		apierrors.WriteError(w, r, statusErrorInvalidArgument())
		return
	}

	pair, uid, err := h.svc.RefreshToken(r.Context(), in.RefreshToken)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AuthFromPair(pair, uid))
}

func (h *Handlers) RevokeToken(w http.ResponseWriter, r *http.Request) {
	var in dto.AuthRevokeRequest
	if err := decodeStrict(r, &in); err != nil || in.RefreshToken == "" {
		apierrors.WriteError(w, r, statusErrorInvalidArgument())
		return
	}

	if err := h.svc.RevokeToken(r.Context(), in.RefreshToken); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AuthRevokeResponse{Ok: true})
}

func (h *Handlers) ValidateToken(w http.ResponseWriter, r *http.Request) {
	var in dto.AuthValidateRequest
	if err := decodeStrict(r, &in); err != nil || in.AccessToken == "" {
		apierrors.WriteError(w, r, statusErrorInvalidArgument())
		return
	}

	uid, email, err := h.svc.ValidateToken(r.Context(), in.AccessToken)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AuthValidateResponse{Valid: true, UserID: uid.String(), Email: email})
}
