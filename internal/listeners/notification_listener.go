package listeners

import (
	"context"
	"fmt"
	"strings"

	"hvac-service/internal/entities"
	"hvac-service/internal/events"
	"hvac-service/internal/services"
	"hvac-service/pkg/constants"
	"hvac-service/pkg/eventbus"
	"hvac-service/pkg/line"

	"go.uber.org/zap"
)

// UserDirectory resolves notification recipients.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*entities.User, error)
	ListActiveByRole(ctx context.Context, role constants.Role) ([]entities.User, error)
	ListClientsBySite(ctx context.Context, siteID string) ([]entities.User, error)
}

type AssignmentLookup interface {
	TechnicianIDs(ctx context.Context, workOrderID string) ([]string, error)
}

// NotificationListener turns domain events into in-app rows, WebSocket pushes
// and LINE messages. LINE failures never fail the handler.
type NotificationListener struct {
	notifications services.NotificationServiceInterface
	line          services.LineServiceInterface
	users         UserDirectory
	assignments   AssignmentLookup
	logger        *zap.Logger
}

func NewNotificationListener(
	notifications services.NotificationServiceInterface,
	lineService services.LineServiceInterface,
	users UserDirectory,
	assignments AssignmentLookup,
	logger *zap.Logger,
) *NotificationListener {
	return &NotificationListener{
		notifications: notifications,
		line:          lineService,
		users:         users,
		assignments:   assignments,
		logger:        logger,
	}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.ApprovalRequested, l.handleApprovalRequested)
	bus.Subscribe(events.ApprovalDecided, l.handleApprovalDecided)
	bus.Subscribe(events.WorkOrderCompleted, l.handleWorkOrderCompleted)
	bus.Subscribe(events.JobAssigned, l.handleJobAssigned)
	bus.Subscribe(events.FeedbackSubmitted, l.handleFeedbackSubmitted)
	bus.Subscribe(events.ContactReceived, l.handleContactReceived)
	l.logger.Info("notification listener subscribed")
}

func workOrderLink(wo entities.WorkOrder) string {
	return "/work-orders/" + wo.ID
}

func workOrderFields(wo entities.WorkOrder) []line.CardField {
	return []line.CardField{
		{Label: "Work order", Value: services.DisplayNumber(&wo)},
		{Label: "Site", Value: wo.SiteName},
		{Label: "Job type", Value: string(wo.JobType)},
		{Label: "Scheduled", Value: wo.ScheduledDate.Format("2006-01-02")},
	}
}

func userIDs(users []entities.User) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

func (l *NotificationListener) pushUsers(ctx context.Context, users []entities.User, messages ...line.Message) {
	for _, u := range users {
		if !u.HasLine() {
			continue
		}
		if err := l.line.PushToUser(ctx, *u.LineUserID, messages...); err != nil {
			l.logger.Warn("line push to user failed", zap.String("userID", u.ID), zap.Error(err))
		}
	}
}

func (l *NotificationListener) pushAdminGroup(ctx context.Context, messages ...line.Message) {
	if err := l.line.PushToAdminGroup(ctx, messages...); err != nil {
		l.logger.Warn("line push to admin group failed", zap.Error(err))
	}
}

func (l *NotificationListener) notifyAdmins(ctx context.Context, in services.NotificationInput) error {
	admins, err := l.users.ListActiveByRole(ctx, constants.RoleAdmin)
	if err != nil {
		return fmt.Errorf("list admins: %w", err)
	}
	return l.notifications.Notify(ctx, userIDs(admins), in)
}

func (l *NotificationListener) handleApprovalRequested(ctx context.Context, e eventbus.Event) error {
	ev, ok := e.(events.ApprovalRequestedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}
	wo := ev.WorkOrder
	number := services.DisplayNumber(&wo)

	card := line.Card{
		Title:       "Approval requested",
		HeaderColor: line.ColorBlue,
		Fields:      workOrderFields(wo),
		Note:        "Please review the repair quote and approve or reject it.",
		ButtonLabel: "Review",
		ButtonURL:   ev.URL,
	}
	msg := card.Message(fmt.Sprintf("Approval requested for work order %s", number))
	l.pushAdminGroup(ctx, msg)

	clients, err := l.users.ListClientsBySite(ctx, wo.SiteID)
	if err != nil {
		return fmt.Errorf("list site clients: %w", err)
	}
	l.pushUsers(ctx, clients, msg)

	return l.notifications.Notify(ctx, userIDs(clients), services.NotificationInput{
		Type:      constants.NotificationApprovalRequested,
		Title:     "Approval requested",
		Message:   fmt.Sprintf("Work order %s at %s is waiting for your approval.", number, wo.SiteName),
		RelatedID: wo.ID,
		Link:      ev.URL,
	})
}

func (l *NotificationListener) handleApprovalDecided(ctx context.Context, e eventbus.Event) error {
	ev, ok := e.(events.ApprovalDecidedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}
	wo := ev.WorkOrder
	number := services.DisplayNumber(&wo)

	verb, notifType := "approved", constants.NotificationApprovalApproved
	if ev.Decision == constants.DecisionReject {
		verb, notifType = "rejected", constants.NotificationApprovalRejected
	}
	text := fmt.Sprintf("Work order %s at %s was %s by the client.", number, wo.SiteName, verb)
	if ev.Reason != nil && strings.TrimSpace(*ev.Reason) != "" {
		text += "\nReason: " + *ev.Reason
	}
	l.pushAdminGroup(ctx, line.NewTextMessage(text))

	recipients, err := l.assignments.TechnicianIDs(ctx, wo.ID)
	if err != nil {
		return fmt.Errorf("list assigned technicians: %w", err)
	}
	admins, err := l.users.ListActiveByRole(ctx, constants.RoleAdmin)
	if err != nil {
		return fmt.Errorf("list admins: %w", err)
	}
	recipients = append(recipients, userIDs(admins)...)

	return l.notifications.Notify(ctx, recipients, services.NotificationInput{
		Type:      notifType,
		Title:     "Approval " + verb,
		Message:   text,
		RelatedID: wo.ID,
		Link:      workOrderLink(wo),
	})
}

func (l *NotificationListener) handleWorkOrderCompleted(ctx context.Context, e eventbus.Event) error {
	ev, ok := e.(events.WorkOrderCompletedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}
	wo := ev.WorkOrder
	text := fmt.Sprintf("Work order %s at %s has been completed. We would appreciate your feedback.",
		services.DisplayNumber(&wo), wo.SiteName)

	clients, err := l.users.ListClientsBySite(ctx, wo.SiteID)
	if err != nil {
		return fmt.Errorf("list site clients: %w", err)
	}
	l.pushUsers(ctx, clients, line.NewTextMessage(text))

	return l.notifications.Notify(ctx, userIDs(clients), services.NotificationInput{
		Type:      constants.NotificationWorkOrderDone,
		Title:     "Work order completed",
		Message:   text,
		RelatedID: wo.ID,
		Link:      workOrderLink(wo),
	})
}

func (l *NotificationListener) handleJobAssigned(ctx context.Context, e eventbus.Event) error {
	ev, ok := e.(events.JobAssignedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}
	wo := ev.WorkOrder
	text := fmt.Sprintf("You have been assigned to work order %s at %s, scheduled for %s.",
		services.DisplayNumber(&wo), wo.SiteName, wo.ScheduledDate.Format("2006-01-02"))

	tech, err := l.users.FindByID(ctx, ev.TechnicianID)
	if err != nil {
		return fmt.Errorf("find technician: %w", err)
	}
	l.pushUsers(ctx, []entities.User{*tech}, line.NewTextMessage(text))

	return l.notifications.Notify(ctx, []string{tech.ID}, services.NotificationInput{
		Type:      constants.NotificationJobAssigned,
		Title:     "New job assigned",
		Message:   text,
		RelatedID: wo.ID,
		Link:      workOrderLink(wo),
	})
}

func (l *NotificationListener) handleFeedbackSubmitted(ctx context.Context, e eventbus.Event) error {
	ev, ok := e.(events.FeedbackSubmittedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}
	wo := ev.WorkOrder
	text := fmt.Sprintf("Feedback for work order %s: %d/5", services.DisplayNumber(&wo), ev.Feedback.Rating)
	if ev.Feedback.Comment != nil && *ev.Feedback.Comment != "" {
		text += " - " + *ev.Feedback.Comment
	}
	return l.notifyAdmins(ctx, services.NotificationInput{
		Type:      constants.NotificationFeedbackReceived,
		Title:     "New feedback",
		Message:   text,
		RelatedID: wo.ID,
		Link:      workOrderLink(wo),
	})
}

func (l *NotificationListener) handleContactReceived(ctx context.Context, e eventbus.Event) error {
	ev, ok := e.(events.ContactReceivedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}
	var contact []string
	if ev.Phone != nil {
		contact = append(contact, *ev.Phone)
	}
	if ev.Email != nil {
		contact = append(contact, *ev.Email)
	}
	text := fmt.Sprintf("%s (%s): %s", ev.Sender, strings.Join(contact, ", "), ev.Message)
	l.pushAdminGroup(ctx, line.NewTextMessage("New contact message\n"+text))

	return l.notifyAdmins(ctx, services.NotificationInput{
		Type:    constants.NotificationContactMessage,
		Title:   "New contact message",
		Message: text,
	})
}
