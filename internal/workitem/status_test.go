package workitem

import (
	"testing"
	"time"

	"bakim-takip-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

func TestTransitionIntoCompletedSetsPendingAndToday(t *testing.T) {
	cur := State{Status: models.ControlStatusPending}

	got, err := ControlVocabulary.Transition(cur, models.ControlStatusCompleted, nil, now)
	require.NoError(t, err)

	assert.Equal(t, models.ControlStatusCompleted, got.Status)
	assert.Equal(t, models.ApprovalPending, got.ApprovalStatus)
	require.NotNil(t, got.CompletionDate)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *got.CompletionDate)
}

func TestTransitionKeepsExplicitCompletionDate(t *testing.T) {
	explicit := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	got, err := YBSVocabulary.Transition(State{Status: models.YBSStatusInProgress, ApprovalStatus: models.ApprovalPending},
		models.YBSStatusCompleted, &explicit, now)
	require.NoError(t, err)

	assert.Equal(t, explicit, *got.CompletionDate)
	assert.Equal(t, models.ApprovalPending, got.ApprovalStatus)
}

func TestInProgressNeverEntersApproval(t *testing.T) {
	got, err := ControlVocabulary.Transition(State{Status: models.ControlStatusPending}, models.ControlStatusInProgress, nil, now)
	require.NoError(t, err)

	assert.Equal(t, models.ApprovalNone, got.ApprovalStatus)
	assert.Nil(t, got.CompletionDate)
}

func TestTerminalApprovalSurvivesRecompletion(t *testing.T) {
	for _, terminal := range []models.ApprovalStatus{models.ApprovalApproved, models.ApprovalRejected} {
		cur := State{Status: models.ControlStatusInProgress, ApprovalStatus: terminal}

		got, err := ControlVocabulary.Transition(cur, models.ControlStatusCompleted, nil, now)
		require.NoError(t, err)
		assert.Equal(t, terminal, got.ApprovalStatus)
	}
}

func TestLeavingCompletedKeepsApproval(t *testing.T) {
	done := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	cur := State{Status: models.ControlStatusCompleted, ApprovalStatus: models.ApprovalPending, CompletionDate: &done}

	got, err := ControlVocabulary.Transition(cur, models.ControlStatusInProgress, nil, now)
	require.NoError(t, err)

	assert.Equal(t, models.ApprovalPending, got.ApprovalStatus)
	assert.Equal(t, done, *got.CompletionDate)
}

func TestCompletedToCompletedHasNoSideEffect(t *testing.T) {
	done := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	cur := State{Status: models.ControlStatusCompleted, ApprovalStatus: models.ApprovalApproved, CompletionDate: &done}

	got, err := ControlVocabulary.Transition(cur, models.ControlStatusCompleted, nil, now)
	require.NoError(t, err)
	assert.Equal(t, cur, got)
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	_, err := ControlVocabulary.Transition(State{}, "completed", nil, now)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = YBSVocabulary.Transition(State{}, models.ControlStatusCompleted, nil, now)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("31.01.2024")
	assert.ErrorIs(t, err, ErrValidation)
}
