// Package httpx fiber handler'ları için ortak yardımcılar.
package httpx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bakim-takip-backend/internal/models"
	"bakim-takip-backend/internal/workitem"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Error çekirdek hatalarını HTTP durum kodlarına çevirir. Tanınmayan
// hatalar olduğu gibi döner ve ErrorHandler'da 500 olarak işlenir.
func Error(err error) error {
	if err == nil {
		return nil
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe
	}

	switch {
	case errors.Is(err, workitem.ErrInvalidIdentifier):
		return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kayıt kimliği")
	case errors.Is(err, workitem.ErrUnknownKind):
		return fiber.NewError(fiber.StatusBadRequest, "Bilinmeyen kayıt türü")
	case errors.Is(err, workitem.ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, detail(err))
	case errors.Is(err, workitem.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Kayıt bulunamadı")
	case errors.Is(err, workitem.ErrNotAwaitingApproval):
		return fiber.NewError(fiber.StatusConflict, "Kayıt onay beklemiyor, karar zaten verilmiş olabilir")
	case errors.Is(err, workitem.ErrStorage):
		return fiber.NewError(fiber.StatusInternalServerError, "Veritabanı hatası")
	}
	return err
}

// detail "geçersiz veri: <açıklama>" mesajını kullanıcıya gösterilecek hale getirir.
func detail(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		msg = msg[i+2:]
	}
	if msg == "" {
		return "Geçersiz veri"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// Bind gövdeyi çözer ve validate tag'lerini kontrol eder.
func Bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("%s alanı geçersiz (%s)", verrs[0].Field(), verrs[0].Tag()))
		}
		return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
	}
	return nil
}

// ParseID pozitif bir tam sayı kimliği çözer. "12abc" gibi kısmi
// sayılar reddedilir.
func ParseID(s string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, strconv.IntSize)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// ParamID sayısal yol parametresini okur.
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	id, ok := ParseID(c.Params(name))
	if !ok {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Geçersiz ID")
	}
	return id, nil
}

// QueryUint opsiyonel sayısal sorgu parametresini okur.
func QueryUint(c *fiber.Ctx, name string) (*uint, error) {
	s := c.Query(name)
	if s == "" {
		return nil, nil
	}
	v, ok := ParseID(s)
	if !ok {
		return nil, fiber.NewError(fiber.StatusBadRequest, name+" geçersiz")
	}
	return &v, nil
}

// QueryDate opsiyonel "2006-01-02" sorgu parametresini okur.
func QueryDate(c *fiber.Ctx, name string) (*time.Time, error) {
	s := c.Query(name)
	if s == "" {
		return nil, nil
	}
	t, err := workitem.ParseDate(s)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, name+" geçersiz, beklenen biçim YYYY-AA-GG")
	}
	return &t, nil
}

// ListFilter liste endpoint'lerinin ortak sorgu parametrelerini okur:
// period, user, facility_id, status, approval_status, from, to.
func ListFilter(c *fiber.Ctx) (workitem.Filter, error) {
	f := workitem.Filter{
		Period: models.Period(c.Query("period")),
		User:   strings.TrimSpace(c.Query("user")),
		Status: c.Query("status"),
	}
	if f.Period != "" && !f.Period.Valid() {
		return f, fiber.NewError(fiber.StatusBadRequest, "period geçersiz")
	}

	var err error
	if f.FacilityID, err = QueryUint(c, "facility_id"); err != nil {
		return f, err
	}
	if s := c.Query("approval_status"); s != "" {
		as := models.ApprovalStatus(s)
		if as != models.ApprovalPending && !as.Terminal() {
			return f, fiber.NewError(fiber.StatusBadRequest, "approval_status geçersiz")
		}
		f.ApprovalStatus = &as
	}
	if f.From, err = QueryDate(c, "from"); err != nil {
		return f, err
	}
	if f.To, err = QueryDate(c, "to"); err != nil {
		return f, err
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return f, fiber.NewError(fiber.StatusBadRequest, "from tarihi to tarihinden sonra olamaz")
	}
	return f, nil
}
