package listeners

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"hvac-service/internal/dto"
	"hvac-service/internal/entities"
	"hvac-service/internal/events"
	"hvac-service/internal/services"
	"hvac-service/pkg/constants"
	"hvac-service/pkg/eventbus"
	"hvac-service/pkg/line"
	"hvac-service/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type notified struct {
	userIDs []string
	input   services.NotificationInput
}

type fakeNotifications struct {
	mu    sync.Mutex
	calls []notified
}

func (f *fakeNotifications) List(context.Context, bool, types.Filter) ([]dto.NotificationDTO, uint64, error) {
	return nil, 0, nil
}
func (f *fakeNotifications) UnreadCount(context.Context) (*dto.UnreadCountDTO, error) {
	return &dto.UnreadCountDTO{}, nil
}
func (f *fakeNotifications) MarkRead(context.Context, string) error     { return nil }
func (f *fakeNotifications) MarkAllRead(context.Context) (int64, error) { return 0, nil }
func (f *fakeNotifications) Notify(_ context.Context, userIDs []string, in services.NotificationInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := append([]string(nil), userIDs...)
	sort.Strings(ids)
	f.calls = append(f.calls, notified{userIDs: ids, input: in})
	return nil
}

type fakeLine struct {
	mu       sync.Mutex
	users    map[string][]line.Message
	group    []line.Message
	groupErr error
}

func newFakeLine() *fakeLine { return &fakeLine{users: map[string][]line.Message{}} }

func (f *fakeLine) PushToUser(_ context.Context, lineUserID string, messages ...line.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[lineUserID] = append(f.users[lineUserID], messages...)
	return nil
}
func (f *fakeLine) PushToAdminGroup(_ context.Context, messages ...line.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.groupErr != nil {
		return f.groupErr
	}
	f.group = append(f.group, messages...)
	return nil
}
func (f *fakeLine) HandleWebhook(context.Context, []byte, string) error { return nil }

type fakeDirectory struct {
	users []entities.User
}

func (d *fakeDirectory) FindByID(_ context.Context, id string) (*entities.User, error) {
	for i := range d.users {
		if d.users[i].ID == id {
			u := d.users[i]
			return &u, nil
		}
	}
	return nil, errors.New("not found")
}
func (d *fakeDirectory) ListActiveByRole(_ context.Context, role constants.Role) ([]entities.User, error) {
	var out []entities.User
	for _, u := range d.users {
		if u.Role == role && u.IsActive {
			out = append(out, u)
		}
	}
	return out, nil
}
func (d *fakeDirectory) ListClientsBySite(_ context.Context, siteID string) ([]entities.User, error) {
	var out []entities.User
	for _, u := range d.users {
		if u.Role == constants.RoleClient && u.IsActive && u.SiteID != nil && *u.SiteID == siteID {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeAssignments map[string][]string

func (f fakeAssignments) TechnicianIDs(_ context.Context, workOrderID string) ([]string, error) {
	return f[workOrderID], nil
}

func strPtr(s string) *string { return &s }

type listenerFixture struct {
	bus           *eventbus.Bus
	notifications *fakeNotifications
	line          *fakeLine
}

func newFixture(t *testing.T) *listenerFixture {
	t.Helper()
	dir := &fakeDirectory{users: []entities.User{
		{ID: "admin-1", Role: constants.RoleAdmin, IsActive: true},
		{ID: "admin-2", Role: constants.RoleAdmin, IsActive: false},
		{ID: "tech-1", Role: constants.RoleTechnician, IsActive: true, LineUserID: strPtr("U-tech")},
		{ID: "client-1", Role: constants.RoleClient, IsActive: true, SiteID: strPtr("site-1"), LineUserID: strPtr("U-client")},
		{ID: "client-2", Role: constants.RoleClient, IsActive: true, SiteID: strPtr("site-1")},
		{ID: "client-3", Role: constants.RoleClient, IsActive: true, SiteID: strPtr("site-2"), LineUserID: strPtr("U-other")},
	}}
	f := &listenerFixture{
		bus:           eventbus.New(zap.NewNop()),
		notifications: &fakeNotifications{},
		line:          newFakeLine(),
	}
	NewNotificationListener(f.notifications, f.line, dir, fakeAssignments{"wo-1": {"tech-1"}}, zap.NewNop()).Register(f.bus)
	return f
}

func (f *listenerFixture) publish(ev eventbus.Event) {
	f.bus.Publish(context.Background(), ev)
	f.bus.Wait()
}

func sampleWorkOrder() entities.WorkOrder {
	return entities.WorkOrder{
		ID:            "wo-1",
		Number:        strPtr("6810150001"),
		SiteID:        "site-1",
		SiteName:      "Central Plaza",
		JobType:       constants.JobTypeCM,
		Status:        constants.WorkOrderWaitingApproval,
		ScheduledDate: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestApprovalRequestedReachesSiteClientsAndAdminGroup(t *testing.T) {
	f := newFixture(t)
	f.publish(events.ApprovalRequestedEvent{WorkOrder: sampleWorkOrder(), URL: "https://hvac.example/approve/abc"})

	require.Len(t, f.notifications.calls, 1)
	call := f.notifications.calls[0]
	assert.Equal(t, []string{"client-1", "client-2"}, call.userIDs)
	assert.Equal(t, constants.NotificationApprovalRequested, call.input.Type)
	assert.Equal(t, "https://hvac.example/approve/abc", call.input.Link)
	assert.Contains(t, call.input.Message, "6810150001")

	require.Len(t, f.line.group, 1)
	assert.Equal(t, "flex", f.line.group[0].Type)
	assert.Len(t, f.line.users["U-client"], 1)
	assert.Empty(t, f.line.users["U-other"])
}

func TestApprovalDecidedNotifiesTechniciansAndAdmins(t *testing.T) {
	f := newFixture(t)
	wo := sampleWorkOrder()
	wo.Status = constants.WorkOrderRejected
	f.publish(events.ApprovalDecidedEvent{WorkOrder: wo, Decision: constants.DecisionReject, Reason: strPtr("too expensive")})

	require.Len(t, f.notifications.calls, 1)
	call := f.notifications.calls[0]
	assert.Equal(t, []string{"admin-1", "tech-1"}, call.userIDs)
	assert.Equal(t, constants.NotificationApprovalRejected, call.input.Type)
	assert.Contains(t, call.input.Message, "rejected")
	assert.Contains(t, call.input.Message, "too expensive")

	require.Len(t, f.line.group, 1)
	assert.Equal(t, "text", f.line.group[0].Type)
}

func TestWorkOrderCompletedNotifiesClients(t *testing.T) {
	f := newFixture(t)
	f.publish(events.WorkOrderCompletedEvent{WorkOrder: sampleWorkOrder(), ActorID: "tech-1"})

	require.Len(t, f.notifications.calls, 1)
	assert.Equal(t, []string{"client-1", "client-2"}, f.notifications.calls[0].userIDs)
	assert.Equal(t, constants.NotificationWorkOrderDone, f.notifications.calls[0].input.Type)
	assert.Len(t, f.line.users["U-client"], 1)
	assert.Empty(t, f.line.group)
}

func TestJobAssignedNotifiesTechnician(t *testing.T) {
	f := newFixture(t)
	f.publish(events.JobAssignedEvent{WorkOrder: sampleWorkOrder(), JobItemID: "item-1", TechnicianID: "tech-1"})

	require.Len(t, f.notifications.calls, 1)
	assert.Equal(t, []string{"tech-1"}, f.notifications.calls[0].userIDs)
	assert.Contains(t, f.notifications.calls[0].input.Message, "2025-10-15")
	assert.Len(t, f.line.users["U-tech"], 1)
}

func TestFeedbackAndContactGoToActiveAdmins(t *testing.T) {
	f := newFixture(t)
	f.publish(events.FeedbackSubmittedEvent{
		WorkOrder: sampleWorkOrder(),
		Feedback:  entities.Feedback{Rating: 4, Comment: strPtr("quick and clean")},
	})
	f.publish(events.ContactReceivedEvent{Sender: "Somchai", Phone: strPtr("0812345678"), Message: "Need a quote"})

	require.Len(t, f.notifications.calls, 2)
	for _, call := range f.notifications.calls {
		assert.Equal(t, []string{"admin-1"}, call.userIDs)
	}
	assert.Equal(t, "Feedback for work order 6810150001: 4/5 - quick and clean", f.notifications.calls[0].input.Message)
	assert.Equal(t, "Somchai (0812345678): Need a quote", f.notifications.calls[1].input.Message)
}

func TestLineFailureDoesNotBlockInAppNotification(t *testing.T) {
	f := newFixture(t)
	f.line.groupErr = errors.New("line down")
	f.publish(events.ContactReceivedEvent{Sender: "A", Email: strPtr("a@example.com"), Message: "hi"})

	require.Len(t, f.notifications.calls, 1)
	assert.Equal(t, constants.NotificationContactMessage, f.notifications.calls[0].input.Type)
}
