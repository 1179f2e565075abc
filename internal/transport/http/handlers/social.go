package handlers

import (
	"net/http"

	"github.com/RickkCastro/ElasNoJogo/internal/transport/http/dto"
	apierrors "github.com/RickkCastro/ElasNoJogo/internal/transport/http/errors"
	"github.com/RickkCastro/ElasNoJogo/internal/transport/http/middleware"
)

func (h *Handlers) Followers(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	opts, err := listOptions(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out, err := h.svc.Followers(r.Context(), id, opts)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FollowEntriesFrom(out))
}

func (h *Handlers) Following(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	opts, err := listOptions(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out, err := h.svc.Following(r.Context(), id, opts)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FollowEntriesFrom(out))
}

func (h *Handlers) FollowStats(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	st, err := h.svc.FollowStats(r.Context(), middleware.UserIDFrom(r.Context()), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FollowStatsFrom(st))
}

func (h *Handlers) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	st, err := h.svc.ToggleFollow(r.Context(), middleware.UserIDFrom(r.Context()), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FollowStatsFrom(st))
}

func (h *Handlers) LikeState(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	st, err := h.svc.LikeState(r.Context(), id, middleware.UserIDFrom(r.Context()))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LikeStateFrom(st))
}

func (h *Handlers) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	st, err := h.svc.ToggleLike(r.Context(), id, middleware.UserIDFrom(r.Context()))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LikeStateFrom(st))
}

func (h *Handlers) SearchLocations(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.SearchLocations(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LocationsResponse{Items: items})
}
