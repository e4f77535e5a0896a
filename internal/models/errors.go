package models

import "errors"

// Доменные ошибки платформы. Сервисы возвращают именно эти значения
// (возможно, обёрнутые через fmt.Errorf с %w), а HTTP-обработчики
// сопоставляют их со статус-кодами через errors.Is.
var (
	// ErrUserNotFound — пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrOrderNotFound — заказ не найден.
	ErrOrderNotFound = errors.New("order not found")
	// ErrServiceNotFound — услуга не найдена.
	ErrServiceNotFound = errors.New("service not found")
	// ErrProfileNotFound — анкета не найдена.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrInvalidCredentials — неверная пара логин/пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrRoleMismatch — роль пользователя не совпала с ожидаемой при входе.
	ErrRoleMismatch = errors.New("role mismatch")
	// ErrAccountDisabled — учётная запись не активна.
	ErrAccountDisabled = errors.New("account disabled")
	// ErrSamePassword — новый пароль совпадает со старым.
	ErrSamePassword = errors.New("new password must differ from old one")
	// ErrUsernameTaken — имя пользователя уже занято.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrForbidden — операция запрещена для данного пользователя.
	ErrForbidden = errors.New("operation forbidden")

	// ErrInvalidServiceTime — время оказания услуги не разобрано как RFC3339.
	ErrInvalidServiceTime = errors.New("invalid service time format")
	// ErrInvalidTransition — недопустимый переход статуса заказа.
	ErrInvalidTransition = errors.New("invalid order status transition")
	// ErrInvalidState — операция невозможна в текущем статусе заказа.
	ErrInvalidState = errors.New("invalid order state for operation")
	// ErrAlreadyEvaluated — заказ уже оценён.
	ErrAlreadyEvaluated = errors.New("order already evaluated")
	// ErrNotAudited — услуга не прошла модерацию и не может быть опубликована.
	ErrNotAudited = errors.New("service is not approved by audit")
	// ErrNotElderlyRole — анкету можно вести только для роли «пожилой человек».
	ErrNotElderlyRole = errors.New("user role is not elderly")
)
