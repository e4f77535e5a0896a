// Package jwt реализует выпуск и проверку JWT-токенов сессии
// с пользовательскими claim-полями (uid, username, role).
package jwt

import (
	"time"
)

// Maker описывает интерфейс для выпуска и разбора токенов сессии.
type Maker interface {
	// GenerateToken выпускает токен для пользователя с указанными uid, именем и ролью.
	GenerateToken(userUID, username string, role int) (string, error)
	// ParseToken проверяет подпись и срок действия токена, возвращает его claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует Maker на секретном ключе HS256
// с фиксированным временем жизни токена.
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов
	tokenTTL  time.Duration // Время жизни токена
}

// NewMaker создаёт новый MakerImpl с заданным ключом и TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
