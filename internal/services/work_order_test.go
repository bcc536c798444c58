package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"hvac-service/internal/dto"
	"hvac-service/internal/entities"
	"hvac-service/internal/events"
	"hvac-service/internal/repositories"
	"hvac-service/pkg/config"
	"hvac-service/pkg/constants"
	apperrors "hvac-service/pkg/errors"
	"hvac-service/pkg/types"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type workOrderFixture struct {
	svc    WorkOrderServiceInterface
	wos    *fakeWorkOrderRepo
	items  *fakeJobItemRepo
	assets *fakeAssetRepo
	bus    *recordingBus
}

func newWorkOrderFixture(attempts int) *workOrderFixture {
	return newWorkOrderFixtureIn(attempts, time.UTC)
}

func newWorkOrderFixtureIn(attempts int, loc *time.Location) *workOrderFixture {
	items := newFakeJobItemRepo()
	wos := newFakeWorkOrderRepo(items)
	assets := newFakeAssetRepo()
	assets.add(entities.Asset{ID: "asset-1", AssetType: constants.AssetTypeAirConditioner}, "site-1")
	assets.add(entities.Asset{ID: "asset-2", AssetType: constants.AssetTypeExhaustFan}, "site-1")
	assets.add(entities.Asset{ID: "asset-9", AssetType: constants.AssetTypeColdRoom}, "site-2")
	users := newFakeUserRepo(
		entities.User{ID: "tech-1", Role: constants.RoleTechnician, IsActive: true},
		entities.User{ID: "tech-2", Role: constants.RoleTechnician, IsActive: true},
		entities.User{ID: "client-1", Role: constants.RoleClient, IsActive: true},
	)
	bus := &recordingBus{}
	svc := NewWorkOrderService(&fakeTxManager{}, wos, items, &fakeJobPhotoRepo{}, assets, users, bus,
		config.WorkOrderConfig{YearOffset: 543, NumberAttempts: attempts, Location: loc}, zap.NewNop())
	return &workOrderFixture{svc: svc, wos: wos, items: items, assets: assets, bus: bus}
}

func createPayload() dto.CreateWorkOrderDTO {
	return dto.CreateWorkOrderDTO{
		SiteID:        "site-1",
		JobType:       "PM",
		ScheduledDate: "2025-10-15",
		Items: []dto.CreateJobItemDTO{
			{AssetID: "asset-1", TechnicianID: null.StringFrom("tech-1")},
			{AssetID: "asset-2"},
		},
	}
}

func numberClash() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: repositories.WorkOrderNumberConstraint}
}

func TestWorkOrderCreate(t *testing.T) {
	f := newWorkOrderFixture(3)

	wo, err := f.svc.Create(adminCtx(), createPayload())
	require.NoError(t, err)

	require.NotNil(t, wo.Number)
	assert.Equal(t, "6810150001", *wo.Number)
	assert.Equal(t, "6810150001", wo.DisplayNumber)
	assert.Equal(t, string(constants.WorkOrderOpen), wo.Status)
	assert.Equal(t, "2025-10-15", wo.ScheduledDate)
	require.Len(t, wo.Items, 2)
	for _, it := range wo.Items {
		assert.Equal(t, string(constants.JobItemPending), it.Status)
	}
	assert.Equal(t, []string{events.JobAssigned}, f.bus.names())

	second, err := f.svc.Create(adminCtx(), createPayload())
	require.NoError(t, err)
	assert.Equal(t, "6810150002", *second.Number)
}

func TestWorkOrderCreateNumbersInterleavedDates(t *testing.T) {
	f := newWorkOrderFixture(3)

	var got []string
	for _, date := range []string{"2025-10-15", "2025-10-16", "2025-10-15", "2025-11-01", "2025-10-15"} {
		p := createPayload()
		p.ScheduledDate = date
		wo, err := f.svc.Create(adminCtx(), p)
		require.NoError(t, err)
		got = append(got, *wo.Number)
	}
	assert.Equal(t, []string{"6810150001", "6810160001", "6810150002", "6811010001", "6810150003"}, got)
}

func TestWorkOrderCreateReadsScheduledDateInBusinessZone(t *testing.T) {
	ict := time.FixedZone("ICT", 7*60*60)
	f := newWorkOrderFixtureIn(3, ict)

	wo, err := f.svc.Create(adminCtx(), createPayload())
	require.NoError(t, err)
	assert.Equal(t, "6810150001", *wo.Number)

	require.Len(t, f.wos.created, 1)
	scheduled := f.wos.created[0].ScheduledDate
	assert.Equal(t, "ICT", scheduled.Location().String())
	assert.True(t, time.Date(2025, time.October, 15, 0, 0, 0, 0, ict).Equal(scheduled))
}

func TestWorkOrderCreateRetriesOnNumberClash(t *testing.T) {
	f := newWorkOrderFixture(3)
	f.wos.createErrs = []error{numberClash()}

	wo, err := f.svc.Create(adminCtx(), createPayload())
	require.NoError(t, err)
	assert.Equal(t, 2, f.wos.nextCalls)
	assert.Equal(t, "6810150002", *wo.Number)
}

func TestWorkOrderCreateGivesUpAfterAttempts(t *testing.T) {
	f := newWorkOrderFixture(2)
	f.wos.createErrs = []error{numberClash(), numberClash(), numberClash()}

	_, err := f.svc.Create(adminCtx(), createPayload())
	require.Error(t, err)
	assert.True(t, repositories.IsUniqueViolation(err, repositories.WorkOrderNumberConstraint))
	assert.Equal(t, 2, f.wos.nextCalls)
	assert.Empty(t, f.bus.names())
}

func TestWorkOrderCreateDoesNotRetryOtherErrors(t *testing.T) {
	f := newWorkOrderFixture(5)
	boom := errors.New("connection reset")
	f.wos.createErrs = []error{boom}

	_, err := f.svc.Create(adminCtx(), createPayload())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, f.wos.nextCalls)
}

func TestWorkOrderCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		ctx    context.Context
		mutate func(p *dto.CreateWorkOrderDTO)
		want   error
	}{
		{"technician cannot create", actorCtx("tech-1", constants.RoleTechnician, ""), func(p *dto.CreateWorkOrderDTO) {}, apperrors.ErrForbidden},
		{"anonymous", context.Background(), func(p *dto.CreateWorkOrderDTO) {}, apperrors.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newWorkOrderFixture(3)
			p := createPayload()
			tt.mutate(&p)
			_, err := f.svc.Create(tt.ctx, p)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	invalid := []struct {
		name   string
		mutate func(p *dto.CreateWorkOrderDTO)
	}{
		{"asset from another site", func(p *dto.CreateWorkOrderDTO) { p.Items[1].AssetID = "asset-9" }},
		{"duplicate asset", func(p *dto.CreateWorkOrderDTO) { p.Items[1].AssetID = "asset-1" }},
		{"assignee is not a technician", func(p *dto.CreateWorkOrderDTO) { p.Items[1].TechnicianID = null.StringFrom("client-1") }},
		{"unknown assignee", func(p *dto.CreateWorkOrderDTO) { p.Items[1].TechnicianID = null.StringFrom("ghost") }},
		{"bad date", func(p *dto.CreateWorkOrderDTO) { p.ScheduledDate = "15/10/2025" }},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			f := newWorkOrderFixture(3)
			p := createPayload()
			tt.mutate(&p)
			_, err := f.svc.Create(adminCtx(), p)
			var inputErr *apperrors.InvalidInputError
			assert.ErrorAs(t, err, &inputErr)
			assert.Empty(t, f.wos.created)
		})
	}
}

func seedWorkOrder(f *workOrderFixture, status constants.WorkOrderStatus, itemStatuses ...constants.JobItemStatus) string {
	f.wos.put(entities.WorkOrder{ID: "wo-1", SiteID: "site-1", Status: status, JobType: constants.JobTypeCM})
	for i, st := range itemStatuses {
		tech := "tech-1"
		f.items.put(entities.JobItem{
			ID:           "item-" + string(rune('a'+i)),
			WorkOrderID:  "wo-1",
			AssetID:      "asset-1",
			TechnicianID: &tech,
			Status:       st,
		})
	}
	return "wo-1"
}

func TestWorkOrderChangeStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    constants.WorkOrderStatus
		to      string
		want    constants.WorkOrderStatus
		wantErr error
		invalid bool
	}{
		{name: "start", from: constants.WorkOrderOpen, to: "IN_PROGRESS", want: constants.WorkOrderInProgress},
		{name: "resume after approval", from: constants.WorkOrderApproved, to: "IN_PROGRESS", want: constants.WorkOrderInProgress},
		{name: "approval only through link", from: constants.WorkOrderWaitingApproval, to: "APPROVED", wantErr: apperrors.ErrInvalidStatusTransition},
		{name: "rejection only through link", from: constants.WorkOrderWaitingApproval, to: "REJECTED", wantErr: apperrors.ErrInvalidStatusTransition},
		{name: "reopen not allowed", from: constants.WorkOrderInProgress, to: "OPEN", wantErr: apperrors.ErrInvalidStatusTransition},
		{name: "waiting approval needs a token", from: constants.WorkOrderInProgress, to: "WAITING_APPROVAL", invalid: true},
		{name: "terminal stays terminal", from: constants.WorkOrderCancelled, to: "IN_PROGRESS", wantErr: apperrors.ErrInvalidStatusTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newWorkOrderFixture(3)
			id := seedWorkOrder(f, tt.from, constants.JobItemPending)

			wo, err := f.svc.ChangeStatus(adminCtx(), id, dto.ChangeStatusDTO{Status: tt.to})
			switch {
			case tt.invalid:
				var inputErr *apperrors.InvalidInputError
				assert.ErrorAs(t, err, &inputErr)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, f.wos.orders[id].Status)
			default:
				require.NoError(t, err)
				assert.Equal(t, string(tt.want), wo.Status)
			}
		})
	}
}

func TestWorkOrderComplete(t *testing.T) {
	f := newWorkOrderFixture(3)
	id := seedWorkOrder(f, constants.WorkOrderInProgress, constants.JobItemDone, constants.JobItemInProgress)
	techCtx := actorCtx("tech-1", constants.RoleTechnician, "")

	_, err := f.svc.Complete(techCtx, id)
	assert.ErrorIs(t, err, apperrors.ErrJobItemsIncomplete)
	assert.Empty(t, f.bus.names())

	f.items.items["item-b"].Status = constants.JobItemIssueFound
	wo, err := f.svc.Complete(techCtx, id)
	require.NoError(t, err)
	assert.Equal(t, string(constants.WorkOrderCompleted), wo.Status)
	assert.NotNil(t, wo.CompletedAt)
	assert.Equal(t, []string{events.WorkOrderCompleted}, f.bus.names())

	_, err = f.svc.Cancel(adminCtx(), id)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)
}

func TestWorkOrderRejectsUnreachableStatusBeforeWriting(t *testing.T) {
	f := newWorkOrderFixture(3)
	id := seedWorkOrder(f, constants.WorkOrderCompleted, constants.JobItemDone)
	_, err := f.svc.ChangeStatus(adminCtx(), id, dto.ChangeStatusDTO{Status: "IN_PROGRESS"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)
	assert.Zero(t, f.wos.writes)

	f = newWorkOrderFixture(3)
	id = seedWorkOrder(f, constants.WorkOrderInProgress, constants.JobItemPending)
	_, err = f.svc.Complete(adminCtx(), id)
	assert.ErrorIs(t, err, apperrors.ErrJobItemsIncomplete)
	assert.Zero(t, f.wos.writes)
}

func TestWorkOrderCancelRequiresAdmin(t *testing.T) {
	f := newWorkOrderFixture(3)
	id := seedWorkOrder(f, constants.WorkOrderOpen, constants.JobItemPending)

	_, err := f.svc.Cancel(actorCtx("tech-1", constants.RoleTechnician, ""), id)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	wo, err := f.svc.ChangeStatus(adminCtx(), id, dto.ChangeStatusDTO{Status: "CANCELLED"})
	require.NoError(t, err)
	assert.Equal(t, string(constants.WorkOrderCancelled), wo.Status)
}

func TestWorkOrderVisibility(t *testing.T) {
	f := newWorkOrderFixture(3)
	id := seedWorkOrder(f, constants.WorkOrderOpen, constants.JobItemPending)

	tests := []struct {
		name string
		ctx  context.Context
		want error
	}{
		{"admin", adminCtx(), nil},
		{"assigned technician", actorCtx("tech-1", constants.RoleTechnician, ""), nil},
		{"other technician", actorCtx("tech-2", constants.RoleTechnician, ""), apperrors.ErrForbidden},
		{"client of the site", actorCtx("client-1", constants.RoleClient, "site-1"), nil},
		{"client of another site", actorCtx("client-2", constants.RoleClient, "site-2"), apperrors.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Get(tt.ctx, id)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestWorkOrderListScope(t *testing.T) {
	f := newWorkOrderFixture(3)
	seedWorkOrder(f, constants.WorkOrderOpen)

	_, _, err := f.svc.List(actorCtx("client-1", constants.RoleClient, "site-1"), types.Filter{})
	require.NoError(t, err)
	assert.Equal(t, entities.WorkOrderScope{SiteID: "site-1"}, f.wos.lastScope)

	_, _, err = f.svc.List(actorCtx("tech-1", constants.RoleTechnician, ""), types.Filter{})
	require.NoError(t, err)
	assert.Equal(t, entities.WorkOrderScope{TechnicianID: "tech-1"}, f.wos.lastScope)

	list, total, err := f.svc.List(adminCtx(), types.Filter{})
	require.NoError(t, err)
	assert.Equal(t, entities.WorkOrderScope{}, f.wos.lastScope)
	assert.Len(t, list, 1)
	assert.Equal(t, uint64(1), total)

	list, total, err = f.svc.List(actorCtx("client-x", constants.RoleClient, ""), types.Filter{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)
}
