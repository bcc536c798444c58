package services

import (
	"errors"
	"strings"
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

var fixedToken = strings.Repeat("ab", approvalTokenBytes)

type approvalFixture struct {
	svc   ApprovalServiceInterface
	wos   *fakeWorkOrderRepo
	items *fakeJobItemRepo
	bus   *recordingBus
}

func newApprovalFixture(gen TokenGenerator) *approvalFixture {
	items := newFakeJobItemRepo()
	wos := newFakeWorkOrderRepo(items)
	bus := &recordingBus{}
	tech := "tech-1"
	wos.put(entities.WorkOrder{ID: "wo-1", SiteID: "site-1", SiteName: "Central Plaza", Status: constants.WorkOrderInProgress, JobType: constants.JobTypeCM})
	items.put(entities.JobItem{ID: "item-1", WorkOrderID: "wo-1", TechnicianID: &tech, Status: constants.JobItemIssueFound, AssetType: constants.AssetTypeAirConditioner})
	svc := NewApprovalService(wos, items, bus, "https://service.example.com/", gen, zap.NewNop())
	return &approvalFixture{svc: svc, wos: wos, items: items, bus: bus}
}

func staticToken() (string, error) { return fixedToken, nil }

func TestRandomApprovalToken(t *testing.T) {
	a, err := RandomApprovalToken()
	require.NoError(t, err)
	b, err := RandomApprovalToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.True(t, validTokenFormat(a))
	assert.NotEqual(t, a, b)
}

func TestIssueApproval(t *testing.T) {
	f := newApprovalFixture(staticToken)

	link, err := f.svc.IssueApproval(actorCtx("tech-1", constants.RoleTechnician, ""), "wo-1")
	require.NoError(t, err)
	assert.Equal(t, "https://service.example.com/approve/"+fixedToken, link.URL)
	assert.Equal(t, constants.WorkOrderWaitingApproval, f.wos.orders["wo-1"].Status)

	require.Len(t, f.bus.events, 1)
	ev, ok := f.bus.events[0].(events.ApprovalRequestedEvent)
	require.True(t, ok)
	assert.Equal(t, link.URL, ev.URL)
	assert.Equal(t, "tech-1", ev.ActorID)
}

func TestIssueApprovalPublishesNothingOnFailure(t *testing.T) {
	t.Run("work order already completed", func(t *testing.T) {
		f := newApprovalFixture(staticToken)
		f.wos.orders["wo-1"].Status = constants.WorkOrderCompleted

		_, err := f.svc.IssueApproval(adminCtx(), "wo-1")
		assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)
		assert.Empty(t, f.bus.names())
	})

	t.Run("token generation fails", func(t *testing.T) {
		f := newApprovalFixture(func() (string, error) { return "", errors.New("entropy exhausted") })

		_, err := f.svc.IssueApproval(adminCtx(), "wo-1")
		assert.Error(t, err)
		assert.Empty(t, f.bus.names())
		assert.Nil(t, f.wos.orders["wo-1"].ApprovalToken)
	})

	t.Run("unassigned technician", func(t *testing.T) {
		f := newApprovalFixture(staticToken)

		_, err := f.svc.IssueApproval(actorCtx("tech-2", constants.RoleTechnician, ""), "wo-1")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		assert.Empty(t, f.bus.names())
	})

	t.Run("client cannot request", func(t *testing.T) {
		f := newApprovalFixture(staticToken)

		_, err := f.svc.IssueApproval(actorCtx("client-1", constants.RoleClient, "site-1"), "wo-1")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestApprovalGetByToken(t *testing.T) {
	f := newApprovalFixture(staticToken)
	_, err := f.svc.IssueApproval(adminCtx(), "wo-1")
	require.NoError(t, err)

	view, err := f.svc.GetByToken(adminCtx(), fixedToken)
	require.NoError(t, err)
	assert.True(t, view.Pending)
	assert.Equal(t, "Central Plaza", view.SiteName)
	require.Len(t, view.Items, 1)
	assert.Equal(t, string(constants.AssetTypeAirConditioner), view.Items[0].AssetType)

	_, err = f.svc.GetByToken(adminCtx(), "short")
	assert.ErrorIs(t, err, apperrors.ErrApprovalNotFound)

	_, err = f.svc.GetByToken(adminCtx(), strings.Repeat("cd", approvalTokenBytes))
	assert.ErrorIs(t, err, apperrors.ErrApprovalNotFound)
}

func TestApprovalDecide(t *testing.T) {
	tests := []struct {
		name       string
		decision   dto.ApprovalDecisionDTO
		wantStatus constants.WorkOrderStatus
		wantReason *string
	}{
		{
			name:       "approve ignores reason",
			decision:   dto.ApprovalDecisionDTO{Decision: "APPROVE", Reason: null.StringFrom("looks fine")},
			wantStatus: constants.WorkOrderApproved,
		},
		{
			name:       "reject stores reason",
			decision:   dto.ApprovalDecisionDTO{Decision: "REJECT", Reason: null.StringFrom("  too expensive ")},
			wantStatus: constants.WorkOrderRejected,
			wantReason: strPtr("too expensive"),
		},
		{
			name:       "reject without reason",
			decision:   dto.ApprovalDecisionDTO{Decision: "reject"},
			wantStatus: constants.WorkOrderRejected,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newApprovalFixture(staticToken)
			_, err := f.svc.IssueApproval(adminCtx(), "wo-1")
			require.NoError(t, err)

			view, err := f.svc.Decide(adminCtx(), fixedToken, tt.decision)
			require.NoError(t, err)
			assert.Equal(t, string(tt.wantStatus), view.Status)
			assert.False(t, view.Pending)
			assert.Equal(t, tt.wantReason, f.wos.orders["wo-1"].RejectionReason)

			require.Equal(t, []string{events.ApprovalRequested, events.ApprovalDecided}, f.bus.names())
			decided := f.bus.events[1].(events.ApprovalDecidedEvent)
			assert.Equal(t, tt.wantStatus, decided.WorkOrder.Status)

			// A second decision on the same link is refused without side effects.
			_, err = f.svc.Decide(adminCtx(), fixedToken, dto.ApprovalDecisionDTO{Decision: "APPROVE"})
			assert.ErrorIs(t, err, apperrors.ErrApprovalAlreadyProcessed)
			assert.Equal(t, tt.wantStatus, f.wos.orders["wo-1"].Status)
			assert.Len(t, f.bus.names(), 2)
		})
	}
}

func TestApprovalDecideUnknownToken(t *testing.T) {
	f := newApprovalFixture(staticToken)

	_, err := f.svc.Decide(adminCtx(), strings.Repeat("ef", approvalTokenBytes), dto.ApprovalDecisionDTO{Decision: "APPROVE"})
	assert.ErrorIs(t, err, apperrors.ErrApprovalNotFound)

	_, err = f.svc.Decide(adminCtx(), "../../etc/passwd", dto.ApprovalDecisionDTO{Decision: "APPROVE"})
	assert.ErrorIs(t, err, apperrors.ErrApprovalNotFound)

	_, err = f.svc.Decide(adminCtx(), fixedToken, dto.ApprovalDecisionDTO{Decision: "MAYBE"})
	var inputErr *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &inputErr)

	assert.Empty(t, f.bus.names())
	assert.Equal(t, constants.WorkOrderInProgress, f.wos.orders["wo-1"].Status)
}
