package error_notificator

import "context"

type Notificator interface {
	// Notify: отправляет полный текст ошибки админу
	Notify(ctx context.Context, err error, details string) error
}
