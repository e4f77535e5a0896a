package middlewarectx

import "context"

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserUID — ключ для UID пользователя в контексте
	UserUID Key = "user_uid"
	// Username — ключ для имени пользователя в контексте
	Username Key = "username"
	// Role — ключ для роли пользователя в контексте
	Role Key = "role"
)

// UserUIDFromContext возвращает UID пользователя из контекста запроса.
func UserUIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(UserUID).(string)
	return uid, ok && uid != ""
}

// RoleFromContext возвращает роль пользователя из контекста запроса.
func RoleFromContext(ctx context.Context) (int, bool) {
	role, ok := ctx.Value(Role).(int)
	return role, ok
}
