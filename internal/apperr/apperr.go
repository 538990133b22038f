// Package apperr определяет типизированные ошибки бизнес-уровня
// и их отображение в HTTP-статусы.
//
// Сервисы возвращают ошибки с конкретным Kind, HTTP-обработчики
// переводят их в код ответа через HTTPStatus. Всё, что не входит
// в таксономию, считается внутренней ошибкой (500).
package apperr

import (
	"errors"
	"net/http"
)

// Kind классифицирует ошибку бизнес-уровня.
type Kind int

const (
	// KindValidation — некорректные входные данные (HTTP 400).
	KindValidation Kind = iota
	// KindAuth — ошибка аутентификации (HTTP 401).
	KindAuth
	// KindNotFound — запрошенная сущность не найдена (HTTP 404).
	KindNotFound
	// KindConflict — конфликт с текущим состоянием, например дубликат (HTTP 409).
	KindConflict
)

// Error — ошибка бизнес-уровня с человеко‑читаемым сообщением.
// Fields заполняется для ошибок валидации: имя поля — текст нарушения.
type Error struct {
	Kind   Kind
	Msg    string
	Fields map[string]string
}

func (e *Error) Error() string {
	return e.Msg
}

// Validation создает ошибку валидации с сообщением msg.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// ValidationFields создает ошибку валидации с сообщениями по полям.
func ValidationFields(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Msg: msg, Fields: fields}
}

// Auth создает ошибку аутентификации с сообщением msg.
func Auth(msg string) *Error {
	return &Error{Kind: KindAuth, Msg: msg}
}

// NotFound создает ошибку отсутствия сущности с сообщением msg.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

// Conflict создает ошибку конфликта состояния с сообщением msg.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Msg: msg}
}

// HTTPStatus возвращает HTTP-статус для ошибки err.
// Ошибки вне таксономии отображаются в 500.
func HTTPStatus(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// As извлекает *Error из цепочки err, если он там есть.
func As(err error) (*Error, bool) {
	var appErr *Error
	ok := errors.As(err, &appErr)
	return appErr, ok
}
