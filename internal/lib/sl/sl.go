// Package sl добавляет маленькие помощники для логгера slog,
// чтобы поля лога выглядели одинаково во всем сервисе.
package sl

import "log/slog"

// Err оборачивает ошибку в slog.Attr с ключом "error".
//
// Используется при логировании:
//
//	log.Error("failed to subscribe", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
