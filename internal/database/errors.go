package database

import "errors"

var (
	// ErrNotFound — запрошенная сущность не существует
	ErrNotFound = errors.New("record not found")
	// ErrForbidden — сущность существует, но пользователь не имеет к ней доступа
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidState — недопустимый переход состояния (например, ответ на уже решённое приглашение)
	ErrInvalidState = errors.New("invalid state")
	// ErrAlreadyExists — нарушение уникальности (username, email, pending-приглашение)
	ErrAlreadyExists = errors.New("already exists")
	// ErrAlreadyMember — приглашаемый уже состоит в канале
	ErrAlreadyMember = errors.New("already a member")
)
