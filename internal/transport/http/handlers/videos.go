package handlers

import (
	"net/http"

	"github.com/RickkCastro/ElasNoJogo/internal/service"
	"github.com/RickkCastro/ElasNoJogo/internal/transport/http/dto"
	apierrors "github.com/RickkCastro/ElasNoJogo/internal/transport/http/errors"
	"github.com/RickkCastro/ElasNoJogo/internal/transport/http/middleware"
	"github.com/google/uuid"
)

func (h *Handlers) ListVideos(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	page, err := h.svc.ListVideos(r.Context(), opts)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PageFrom(page))
}

func (h *Handlers) ListFollowingVideos(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	page, err := h.svc.ListFollowingVideos(r.Context(), middleware.UserIDFrom(r.Context()), opts)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PageFrom(page))
}

func (h *Handlers) ListUserVideos(w http.ResponseWriter, r *http.Request) {
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

	page, err := h.svc.ListUserVideos(r.Context(), id, opts)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PageFrom(page))
}

func (h *Handlers) GetVideo(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	v, err := h.svc.VideoByID(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.VideoFrom(v))
}

func (h *Handlers) PresignVideo(w http.ResponseWriter, r *http.Request) {
	var in dto.PresignVideoRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, statusErrorInvalidArgument())
		return
	}

	req := service.PresignVideoInput{
		UserID: middleware.UserIDFrom(r.Context()),
		Video:  service.MediaInput{ContentType: in.Video.ContentType, ContentLength: in.Video.ContentLength},
	}

	if in.Thumbnail != nil {
		req.Thumbnail = &service.MediaInput{ContentType: in.Thumbnail.ContentType, ContentLength: in.Thumbnail.ContentLength}
	}

	up, err := h.svc.PresignVideoUpload(r.Context(), req)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PresignVideoResponse{
		VideoID:   up.VideoID.String(),
		Video:     dto.PresignFrom(up.Video),
		Thumbnail: dto.PresignFrom(up.Thumbnail),
	})
}

func (h *Handlers) CreateVideo(w http.ResponseWriter, r *http.Request) {
	var in dto.CreateVideoRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, statusErrorInvalidArgument())
		return
	}

	var videoID uuid.UUID
	if in.VideoID != "" {
		id, err := uuid.Parse(in.VideoID)
		if err != nil {
			apierrors.WriteError(w, r, statusErrorInvalidArgument())
			return
		}
		videoID = id
	}

	v, err := h.svc.CreateVideo(r.Context(), service.CreateVideoInput{
		UserID:          middleware.UserIDFrom(r.Context()),
		VideoID:         videoID,
		VideoKey:        in.VideoKey,
		ThumbnailKey:    in.ThumbnailKey,
		Title:           in.Title,
		Description:     in.Description,
		Location:        in.Location,
		DurationSeconds: in.DurationSeconds,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.VideoFrom(v))
}

func (h *Handlers) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in dto.UpdateVideoRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, statusErrorInvalidArgument())
		return
	}

	v, err := h.svc.UpdateVideo(r.Context(), service.UpdateVideoInput{
		VideoID:     id,
		UserID:      middleware.UserIDFrom(r.Context()),
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.VideoFrom(v))
}

func (h *Handlers) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.svc.DeleteVideo(r.Context(), id, middleware.UserIDFrom(r.Context())); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CountView(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	views, err := h.svc.IncrementViews(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ViewsResponse{ViewsCount: views})
}
