// storage содержит контракты слоя хранилищ elas-no-jogo.
//
// storage.go — общие ошибки и верхнеуровневый интерфейс Storage;
// users.go — учётные записи и refresh-токены;
// profiles.go — профили и контакты;
// videos.go — видео, лайки и просмотры;
// follows.go — подписки;
// media.go — объекты в S3/MinIO (видео, превью, аватары).
package storage

import (
	"errors"
)

var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email, username, подписка и т.п.).
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidArgument — нарушены ограничения запроса (тип/размер объекта, ключ, check-constraint).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFoundObject — объект (ключ) отсутствует в бакете.
	ErrNotFoundObject = errors.New("object not found")
)

// Storage — верхнеуровневый контракт реляционного хранилища.
type Storage interface {
	UserStorage
	RefreshTokenStorage
	ProfileStorage
	ContactStorage
	VideoStorage
	LikeStorage
	FollowStorage
	Close()
}
