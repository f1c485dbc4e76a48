package workitem

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation hatalı girdi (eksik alan, geçersiz durum, ters tarih aralığı).
	ErrValidation = errors.New("geçersiz veri")
	// ErrNotFound id/tür hiçbir kayda karşılık gelmiyor.
	ErrNotFound = errors.New("kayıt bulunamadı")
	// ErrInvalidIdentifier bileşik kimlik "{tür}_{id}" biçiminde değil.
	ErrInvalidIdentifier = errors.New("geçersiz kimlik")
	// ErrUnknownKind bileşik kimliğin öneki bilinen bir türe ait değil.
	ErrUnknownKind = errors.New("bilinmeyen kayıt türü")
	// ErrNotAwaitingApproval kayıt onay beklemiyor (zaten karara bağlanmış
	// veya hiç onaya düşmemiş).
	ErrNotAwaitingApproval = errors.New("kayıt onay beklemiyor")
	// ErrStorage veritabanı hatası.
	ErrStorage = errors.New("veritabanı hatası")
)

// Validationf ErrValidation'ı saran açıklamalı bir hata üretir.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// StorageError veritabanı hatasını ErrStorage ile sarar; nil için nil döner.
func StorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
