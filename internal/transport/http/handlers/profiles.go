package handlers

import (
	"net/http"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/RickkCastro/ElasNoJogo/internal/service"
	"github.com/RickkCastro/ElasNoJogo/internal/transport/http/dto"
	apierrors "github.com/RickkCastro/ElasNoJogo/internal/transport/http/errors"
	"github.com/RickkCastro/ElasNoJogo/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

func (h *Handlers) CompleteProfile(w http.ResponseWriter, r *http.Request) {
	var in dto.CompleteProfileRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, statusErrorInvalidArgument())
		return
	}

	p, err := h.svc.CompleteProfile(r.Context(), service.CompleteProfileInput{
		UserID:      middleware.UserIDFrom(r.Context()),
		Username:    in.Username,
		FullName:    in.FullName,
		Bio:         in.Bio,
		ProfileType: models.ProfileType(in.ProfileType),
		Location:    in.Location,
		Position:    in.Position,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ProfileFrom(p))
}

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	p, err := h.svc.ProfileByID(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ProfileFrom(p))
}

func (h *Handlers) GetProfileByUsername(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "username")
	if name == "" {
		apierrors.WriteError(w, r, statusErrorInvalidArgument())
		return
	}

	p, err := h.svc.ProfileByUsername(r.Context(), name)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ProfileFrom(p))
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in dto.UpdateProfileRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, statusErrorInvalidArgument())
		return
	}

	upd := service.UpdateProfileInput{
		UserID:   middleware.UserIDFrom(r.Context()),
		Username: in.Username,
		FullName: in.FullName,
		Bio:      in.Bio,
		Location: in.Location,
		Position: in.Position,
		Mask:     in.Mask,
	}

	if in.ProfileType != nil {
		pt := models.ProfileType(*in.ProfileType)
		upd.ProfileType = &pt
	}

	p, err := h.svc.UpdateProfile(r.Context(), upd)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ProfileFrom(p))
}

func (h *Handlers) AvatarPresign(w http.ResponseWriter, r *http.Request) {
	var in dto.PresignRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, statusErrorInvalidArgument())
		return
	}

	info, err := h.svc.AvatarUploadURL(r.Context(), service.AvatarUploadURLInput{
		UserID:        middleware.UserIDFrom(r.Context()),
		ContentType:   in.ContentType,
		ContentLength: in.ContentLength,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PresignFrom(info))
}

func (h *Handlers) AvatarConfirm(w http.ResponseWriter, r *http.Request) {
	var in dto.AvatarConfirmRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, statusErrorInvalidArgument())
		return
	}

	p, err := h.svc.ConfirmAvatarUpload(r.Context(), service.ConfirmAvatarUploadInput{
		UserID:    middleware.UserIDFrom(r.Context()),
		AvatarKey: in.AvatarKey,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ProfileFrom(p))
}

func (h *Handlers) ListContacts(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	cs, err := h.svc.ContactsByProfile(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ContactsFrom(cs))
}

func (h *Handlers) ReplaceContacts(w http.ResponseWriter, r *http.Request) {
	var in dto.ReplaceContactsRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, statusErrorInvalidArgument())
		return
	}

	input := make([]service.ContactInput, 0, len(in.Contacts))
	for _, c := range in.Contacts {
		input = append(input, service.ContactInput{Type: c.Type, Title: c.Title, URL: c.URL, IconName: c.IconName})
	}

	cs, err := h.svc.ReplaceContacts(r.Context(), middleware.UserIDFrom(r.Context()), input)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ContactsFrom(cs))
}
