package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow — подписка follower -> following.
type Follow struct {
	ID          uuid.UUID
	FollowerID  uuid.UUID
	FollowingID uuid.UUID
	CreatedAt   time.Time
}

// FollowEntry — элемент списка подписчиков/подписок с карточкой профиля.
type FollowEntry struct {
	Author    Author
	CreatedAt time.Time
}

// FollowStats — счётчики и отношение просматривающего к профилю.
type FollowStats struct {
	Followers   int64
	Following   int64
	IsFollowing bool
}
