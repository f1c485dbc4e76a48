package httpx

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"bakim-takip-backend/internal/models"
	"bakim-takip-backend/internal/workitem"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: x", workitem.ErrInvalidIdentifier), fiber.StatusBadRequest},
		{fmt.Errorf("%w: x", workitem.ErrUnknownKind), fiber.StatusBadRequest},
		{workitem.Validationf("tarih zorunlu"), fiber.StatusBadRequest},
		{fmt.Errorf("%w: control_1", workitem.ErrNotFound), fiber.StatusNotFound},
		{fmt.Errorf("%w: control_1", workitem.ErrNotAwaitingApproval), fiber.StatusConflict},
		{workitem.StorageError("okuma", errors.New("disk")), fiber.StatusInternalServerError},
		{fiber.NewError(fiber.StatusTeapot, "çay"), fiber.StatusTeapot},
	}
	for _, tc := range cases {
		var fe *fiber.Error
		require.True(t, errors.As(Error(tc.err), &fe), tc.err.Error())
		assert.Equal(t, tc.code, fe.Code, tc.err.Error())
	}

	plain := errors.New("bilinmeyen")
	assert.Equal(t, plain, Error(plain))
	assert.NoError(t, Error(nil))

	var fe *fiber.Error
	require.True(t, errors.As(Error(workitem.Validationf("tarih zorunlu")), &fe))
	assert.Equal(t, "Tarih zorunlu", fe.Message)
}

func filterFor(t *testing.T, query string) (workitem.Filter, error) {
	t.Helper()
	var (
		f   workitem.Filter
		err error
	)
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		f, err = ListFilter(c)
		return nil
	})
	_, testErr := app.Test(httptest.NewRequest("GET", "/?"+query, nil))
	require.NoError(t, testErr)
	return f, err
}

func TestListFilter(t *testing.T) {
	f, err := filterFor(t, "user=ali&facility_id=3&status=done&approval_status=pending&from=2024-01-01&to=2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, "ali", f.User)
	require.NotNil(t, f.FacilityID)
	assert.Equal(t, uint(3), *f.FacilityID)
	require.NotNil(t, f.ApprovalStatus)
	assert.Equal(t, models.ApprovalPending, *f.ApprovalStatus)
	require.NotNil(t, f.From)
	require.NotNil(t, f.To)
	assert.Equal(t, "2024-01-31", f.To.Format("2006-01-02"))

	for _, q := range []string{
		"period=Weekly",
		"facility_id=abc",
		"approval_status=done",
		"from=31.01.2024",
		"from=2024-02-01&to=2024-01-01",
	} {
		_, err := filterFor(t, q)
		assert.Error(t, err, q)
	}
}

func TestParamIDIsStrict(t *testing.T) {
	app := fiber.New()
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		id, err := ParamID(c, "id")
		if err != nil {
			return err
		}
		return c.JSON(id)
	})

	cases := map[string]int{
		"12":    fiber.StatusOK,
		"12abc": fiber.StatusBadRequest,
		"0":     fiber.StatusBadRequest,
		"-3":    fiber.StatusBadRequest,
		"1e3":   fiber.StatusBadRequest,
	}
	for raw, code := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", "/items/"+raw, nil))
		require.NoError(t, err)
		assert.Equal(t, code, resp.StatusCode, raw)
	}

	_, err := filterFor(t, "facility_id=3x")
	assert.Error(t, err)
}
