// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Пакет упрощает возврат
// успешных ответов, ошибок бизнес-уровня и сообщений валидации в едином формате.
package response

import (
	"fmt"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/course-marketplace/internal/apperr"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Error — текст ошибки (опционально, при неуспехе).
// Поле Fields — сообщения валидации по полям (опционально).
// Поле Data — данные ответа (опционально, при успехе).
type Response struct {
	Status string            `json:"status"`
	Error  string            `json:"error,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
	Data   any               `json:"data,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// AppError формирует Response для ошибки бизнес-уровня, включая
// сообщения по полям для ошибок валидации. Для ошибок вне таксономии
// текст заменяется обезличенным, чтобы не протекали внутренние детали.
func AppError(err error) Response {
	appErr, ok := apperr.As(err)
	if !ok {
		return Response{Status: StatusError, Error: "internal server error"}
	}
	return Response{
		Status: StatusError,
		Error:  appErr.Msg,
		Fields: appErr.Fields,
	}
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст по имени поля.
func ValidationError(errs validator.ValidationErrors) Response {
	fields := make(map[string]string)

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			fields[err.Field()] = fmt.Sprintf("field %s is a required field", err.Field())
		case "email":
			fields[err.Field()] = fmt.Sprintf("field %s must be a valid email", err.Field())
		case "min":
			fields[err.Field()] = fmt.Sprintf("field %s is too short", err.Field())
		case "uuid":
			fields[err.Field()] = fmt.Sprintf("field %s can contain only uuid", err.Field())
		default:
			fields[err.Field()] = fmt.Sprintf("field %s is not a valid", err.Field())
		}
	}
	return Response{
		Status: StatusError,
		Error:  "validation failed",
		Fields: fields,
	}
}
