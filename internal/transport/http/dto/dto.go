// dto — JSON-модели HTTP API и конвертеры из/в доменные типы.
// Пакет общий для сервера (handlers) и клиента (internal/client).
package dto

import (
	"time"

	"github.com/RickkCastro/ElasNoJogo/internal/models"
	"github.com/RickkCastro/ElasNoJogo/internal/storage"
	"github.com/google/uuid"
)

// auth

type AuthRegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthRefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type AuthRevokeRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type AuthRevokeResponse struct {
	Ok bool `json:"ok"`
}

type AuthResponse struct {
	UserID          string `json:"user_id"`
	AccessToken     string `json:"access_token"`
	RefreshToken    string `json:"refresh_token"`
	AccessExpiresAt int64  `json:"access_expires_at"` // Unix UTC
}

type AuthValidateRequest struct {
	AccessToken string `json:"access_token"`
}

type AuthValidateResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func AuthFromPair(p *models.TokenPair, uid uuid.UUID) AuthResponse {
	return AuthResponse{
		UserID:          uid.String(),
		AccessToken:     p.AccessToken,
		RefreshToken:    p.RefreshToken,
		AccessExpiresAt: p.AccessExpiresAt.UTC().Unix(),
	}
}

// profiles

type Author struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

func AuthorFrom(a models.Author) Author {
	return Author{
		ID:        a.ID.String(),
		Username:  a.Username,
		FullName:  a.FullName,
		AvatarURL: a.AvatarURL,
	}
}

// Model разбирает карточку автора; битый id даёт uuid.Nil.
func (a Author) Model() models.Author {
	id, _ := uuid.Parse(a.ID)

	return models.Author{ID: id, Username: a.Username, FullName: a.FullName, AvatarURL: a.AvatarURL}
}

type Profile struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	FullName    string `json:"full_name"`
	Bio         string `json:"bio"`
	ProfileType string `json:"profile_type"`
	Location    string `json:"location"`
	Position    string `json:"position"`
	AvatarURL   string `json:"avatar_url"`
	AvatarKey   string `json:"avatar_key"`
	CreatedAt   int64  `json:"created_at"` // Unix UTC
	UpdatedAt   int64  `json:"updated_at"` // Unix UTC
}

func ProfileFrom(p *models.Profile) Profile {
	return Profile{
		UserID:      p.UserID.String(),
		Username:    p.Username,
		FullName:    p.FullName,
		Bio:         p.Bio,
		ProfileType: string(p.ProfileType),
		Location:    p.Location,
		Position:    p.Position,
		AvatarURL:   p.AvatarURL,
		AvatarKey:   p.AvatarKey,
		CreatedAt:   unix(p.CreatedAt),
		UpdatedAt:   unix(p.UpdatedAt),
	}
}

type CompleteProfileRequest struct {
	Username    string `json:"username"`
	FullName    string `json:"full_name"`
	Bio         string `json:"bio"`
	ProfileType string `json:"profile_type"`
	Location    string `json:"location"`
	Position    string `json:"position"`
}

type UpdateProfileRequest struct {
	Username    *string  `json:"username,omitempty"`
	FullName    *string  `json:"full_name,omitempty"`
	Bio         *string  `json:"bio,omitempty"`
	ProfileType *string  `json:"profile_type,omitempty"`
	Location    *string  `json:"location,omitempty"`
	Position    *string  `json:"position,omitempty"`
	Mask        []string `json:"mask,omitempty"`
}

type PresignRequest struct {
	ContentType   string `json:"content_type"`
	ContentLength int64  `json:"content_length"`
}

type PresignResponse struct {
	UploadURL      string            `json:"upload_url"`
	Key            string            `json:"key"`
	ExpiresSeconds int64             `json:"expires_seconds"`
	RequiredHeader map[string]string `json:"required_header,omitempty"`
}

func PresignFrom(u *storage.UploadInfo) *PresignResponse {
	if u == nil {
		return nil
	}

	return &PresignResponse{
		UploadURL:      u.UploadURL,
		Key:            u.Key,
		ExpiresSeconds: int64(u.Expires / time.Second),
		RequiredHeader: u.RequiredHeader,
	}
}

type AvatarConfirmRequest struct {
	AvatarKey string `json:"avatar_key"`
}

// contacts

type Contact struct {
	ID         string `json:"id,omitempty"`
	Type       string `json:"type"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	IconName   string `json:"icon_name,omitempty"`
	OrderIndex int    `json:"order_index"`
}

func ContactsFrom(cs []models.Contact) []Contact {
	out := make([]Contact, 0, len(cs))
	for _, c := range cs {
		out = append(out, Contact{
			ID:         c.ID.String(),
			Type:       string(c.Type),
			Title:      c.Title,
			URL:        c.URL,
			IconName:   c.IconName,
			OrderIndex: c.OrderIndex,
		})
	}

	return out
}

type ReplaceContactsRequest struct {
	Contacts []Contact `json:"contacts"`
}

// follows

type FollowEntry struct {
	Author    Author `json:"author"`
	CreatedAt int64  `json:"created_at"`
}

func FollowEntriesFrom(es []models.FollowEntry) []FollowEntry {
	out := make([]FollowEntry, 0, len(es))
	for _, e := range es {
		out = append(out, FollowEntry{Author: AuthorFrom(e.Author), CreatedAt: unix(e.CreatedAt)})
	}

	return out
}

type FollowStats struct {
	Followers   int64 `json:"followers"`
	Following   int64 `json:"following"`
	IsFollowing bool  `json:"is_following"`
}

func FollowStatsFrom(s *models.FollowStats) FollowStats {
	return FollowStats{Followers: s.Followers, Following: s.Following, IsFollowing: s.IsFollowing}
}

// videos

type Video struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	Location        string `json:"location,omitempty"`
	VideoURL        string `json:"video_url"`
	ThumbnailURL    string `json:"thumbnail_url,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	ViewsCount      int64  `json:"views_count"`
	LikesCount      int64  `json:"likes_count"`
	Author          Author `json:"author"`
	CreatedAt       int64  `json:"created_at"`
}

func VideoFrom(v *models.Video) Video {
	return Video{
		ID:              v.ID.String(),
		UserID:          v.UserID.String(),
		Title:           v.Title,
		Description:     v.Description,
		Location:        v.Location,
		VideoURL:        v.VideoURL,
		ThumbnailURL:    v.ThumbnailURL,
		DurationSeconds: v.DurationSeconds,
		ViewsCount:      v.ViewsCount,
		LikesCount:      v.LikesCount,
		Author:          AuthorFrom(v.Author),
		CreatedAt:       unix(v.CreatedAt),
	}
}

// Model разбирает видео из ответа API. Битый id — ошибка формата ответа.
func (v Video) Model() (models.Video, error) {
	id, err := uuid.Parse(v.ID)
	if err != nil {
		return models.Video{}, err
	}

	uid, _ := uuid.Parse(v.UserID)

	out := models.Video{
		ID:              id,
		UserID:          uid,
		Title:           v.Title,
		Description:     v.Description,
		Location:        v.Location,
		VideoURL:        v.VideoURL,
		ThumbnailURL:    v.ThumbnailURL,
		DurationSeconds: v.DurationSeconds,
		ViewsCount:      v.ViewsCount,
		LikesCount:      v.LikesCount,
		Author:          v.Author.Model(),
	}

	if v.CreatedAt > 0 {
		out.CreatedAt = time.Unix(v.CreatedAt, 0).UTC()
	}

	return out, nil
}

type VideoPage struct {
	Items    []Video `json:"items"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
	HasMore  bool    `json:"has_more"`
}

func PageFrom(p *models.Page) VideoPage {
	items := make([]Video, 0, len(p.Items))
	for i := range p.Items {
		items = append(items, VideoFrom(&p.Items[i]))
	}

	return VideoPage{Items: items, Page: p.Page, PageSize: p.PageSize, HasMore: p.HasMore}
}

// Model разбирает страницу; первый битый элемент прерывает разбор.
func (p VideoPage) Model() (*models.Page, error) {
	items := make([]models.Video, 0, len(p.Items))
	for _, v := range p.Items {
		m, err := v.Model()
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}

	return &models.Page{Items: items, Page: p.Page, PageSize: p.PageSize, HasMore: p.HasMore}, nil
}

type PresignVideoRequest struct {
	Video     PresignRequest  `json:"video"`
	Thumbnail *PresignRequest `json:"thumbnail,omitempty"`
}

type PresignVideoResponse struct {
	VideoID   string           `json:"video_id"`
	Video     *PresignResponse `json:"video"`
	Thumbnail *PresignResponse `json:"thumbnail,omitempty"`
}

type CreateVideoRequest struct {
	VideoID         string `json:"video_id,omitempty"`
	VideoKey        string `json:"video_key"`
	ThumbnailKey    string `json:"thumbnail_key,omitempty"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Location        string `json:"location"`
	DurationSeconds int    `json:"duration_seconds"`
}

type UpdateVideoRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
}

type ViewsResponse struct {
	ViewsCount int64 `json:"views_count"`
}

type LikeState struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

func LikeStateFrom(s models.LikeState) LikeState {
	return LikeState{Liked: s.Liked, LikesCount: s.Count}
}

func (s LikeState) Model() models.LikeState {
	return models.LikeState{Liked: s.Liked, Count: s.LikesCount}
}

// locations

type LocationsResponse struct {
	Items []models.Location `json:"items"`
}

func unix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}

	return t.UTC().Unix()
}
