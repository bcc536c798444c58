package services

import (
	"testing"

	"hvac-service/internal/dto"
	"hvac-service/internal/entities"
	"hvac-service/internal/events"
	"hvac-service/pkg/constants"
	apperrors "hvac-service/pkg/errors"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newFeedbackFixture(status constants.WorkOrderStatus) (FeedbackServiceInterface, *fakeFeedbackRepo, *recordingBus) {
	wos := newFakeWorkOrderRepo(newFakeJobItemRepo())
	wos.put(entities.WorkOrder{ID: "wo-1", SiteID: "site-1", Status: status})
	repo := &fakeFeedbackRepo{}
	bus := &recordingBus{}
	return NewFeedbackService(wos, repo, bus, zap.NewNop()), repo, bus
}

func TestFeedbackSubmit(t *testing.T) {
	svc, repo, bus := newFeedbackFixture(constants.WorkOrderCompleted)
	clientCtx := actorCtx("client-1", constants.RoleClient, "site-1")

	fb, err := svc.Submit(clientCtx, "wo-1", dto.CreateFeedbackDTO{Rating: 5, Comment: null.StringFrom("quick and clean")})
	require.NoError(t, err)
	assert.Equal(t, 5, fb.Rating)
	assert.Len(t, repo.list, 1)
	assert.Equal(t, []string{events.FeedbackSubmitted}, bus.names())

	_, err = svc.Submit(clientCtx, "wo-1", dto.CreateFeedbackDTO{Rating: 4})
	assert.ErrorIs(t, err, apperrors.ErrFeedbackExists)
	assert.Len(t, repo.list, 1)
	assert.Len(t, bus.names(), 1)

	// Another client user of the same site may still give feedback.
	_, err = svc.Submit(actorCtx("client-2", constants.RoleClient, "site-1"), "wo-1", dto.CreateFeedbackDTO{Rating: 3})
	assert.NoError(t, err)
}

func TestFeedbackSubmitRejected(t *testing.T) {
	var inputErr *apperrors.InvalidInputError

	t.Run("work order not completed", func(t *testing.T) {
		svc, repo, _ := newFeedbackFixture(constants.WorkOrderInProgress)
		_, err := svc.Submit(actorCtx("client-1", constants.RoleClient, "site-1"), "wo-1", dto.CreateFeedbackDTO{Rating: 5})
		assert.ErrorAs(t, err, &inputErr)
		assert.Empty(t, repo.list)
	})

	t.Run("rating out of range", func(t *testing.T) {
		svc, _, _ := newFeedbackFixture(constants.WorkOrderCompleted)
		for _, rating := range []int{0, 6, -1} {
			_, err := svc.Submit(actorCtx("client-1", constants.RoleClient, "site-1"), "wo-1", dto.CreateFeedbackDTO{Rating: rating})
			assert.ErrorAs(t, err, &inputErr)
		}
	})

	t.Run("client of another site", func(t *testing.T) {
		svc, _, _ := newFeedbackFixture(constants.WorkOrderCompleted)
		_, err := svc.Submit(actorCtx("client-9", constants.RoleClient, "site-9"), "wo-1", dto.CreateFeedbackDTO{Rating: 5})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("technician", func(t *testing.T) {
		svc, _, _ := newFeedbackFixture(constants.WorkOrderCompleted)
		_, err := svc.Submit(actorCtx("tech-1", constants.RoleTechnician, ""), "wo-1", dto.CreateFeedbackDTO{Rating: 5})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("unknown work order", func(t *testing.T) {
		svc, _, _ := newFeedbackFixture(constants.WorkOrderCompleted)
		_, err := svc.Submit(actorCtx("client-1", constants.RoleClient, "site-1"), "wo-404", dto.CreateFeedbackDTO{Rating: 5})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
