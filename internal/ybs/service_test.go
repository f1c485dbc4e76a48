package ybs

import (
	"context"
	"testing"
	"time"

	"bakim-takip-backend/internal/crud"
	"bakim-takip-backend/internal/models"
	"bakim-takip-backend/internal/testutil"
	"bakim-takip-backend/internal/workitem"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestLifecycle(t *testing.T) {
	now := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	svc := NewService(testutil.NewDB(t))
	svc.now = func() time.Time { return now }
	ctx := context.Background()
	who := crud.Actor{ID: 2, Name: "veli"}

	item, err := svc.Create(ctx, who, Input{Title: ptr("Sunucu"), Date: ptr("2024-05-01"), AssignedUser: ptr("veli")})
	require.NoError(t, err)
	assert.Equal(t, models.YBSStatusPending, item.Status)
	assert.Equal(t, models.ApprovalPending, item.ApprovalStatus)
	assert.Nil(t, item.CompletionDate)

	item, err = svc.Update(ctx, who, item.ID, Input{Status: ptr(models.YBSStatusCompleted), Description: ptr("Disk değişti")})
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalPending, item.ApprovalStatus)
	require.NotNil(t, item.CompletionDate)
	assert.True(t, item.CompletionDate.Equal(workitem.Today(now)))

	list, err := svc.List(ctx, workitem.Filter{User: "veli", Status: models.YBSStatusCompleted})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Disk değişti", list[0].Description)
}

func TestRejectsControlVocabulary(t *testing.T) {
	svc := NewService(testutil.NewDB(t))

	_, err := svc.Create(context.Background(), crud.Actor{}, Input{
		Title: ptr("x"), Date: ptr("2024-05-01"), Status: ptr(models.ControlStatusCompleted),
	})
	assert.ErrorIs(t, err, workitem.ErrValidation)

	_, err = svc.Create(context.Background(), crud.Actor{}, Input{
		Title: ptr("x"), Date: ptr("2024-05-01"), Period: ptr(models.Period("Weekly")),
	})
	assert.ErrorIs(t, err, workitem.ErrValidation)
}
