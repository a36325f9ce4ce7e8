// Package sl — небольшие помощники для структурированного логирования
// через slog, общие для сервера и воркеров.
package sl

import "log/slog"

// Err оборачивает ошибку в slog.Attr с ключом "error", чтобы все записи
// об ошибках в логах имели одинаковую форму:
//
//	log.Error("failed to issue certificate", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
