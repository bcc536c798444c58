package events

import (
	"hvac-service/internal/entities"
	"hvac-service/pkg/constants"
)

const (
	ApprovalRequested  = "approval.requested"
	ApprovalDecided    = "approval.decided"
	WorkOrderCompleted = "work_order.completed"
	JobAssigned        = "job_item.assigned"
	FeedbackSubmitted  = "feedback.submitted"
	ContactReceived    = "contact.received"
)

// ApprovalRequestedEvent is published once the approval token has been stored.
type ApprovalRequestedEvent struct {
	WorkOrder entities.WorkOrder
	URL       string
	ActorID   string
}

func (e ApprovalRequestedEvent) Name() string { return ApprovalRequested }

type ApprovalDecidedEvent struct {
	WorkOrder entities.WorkOrder
	Decision  constants.ApprovalDecision
	Reason    *string
}

func (e ApprovalDecidedEvent) Name() string { return ApprovalDecided }

type WorkOrderCompletedEvent struct {
	WorkOrder entities.WorkOrder
	ActorID   string
}

func (e WorkOrderCompletedEvent) Name() string { return WorkOrderCompleted }

type JobAssignedEvent struct {
	WorkOrder    entities.WorkOrder
	JobItemID    string
	TechnicianID string
}

func (e JobAssignedEvent) Name() string { return JobAssigned }

type FeedbackSubmittedEvent struct {
	WorkOrder entities.WorkOrder
	Feedback  entities.Feedback
}

func (e FeedbackSubmittedEvent) Name() string { return FeedbackSubmitted }

type ContactReceivedEvent struct {
	Sender  string
	Phone   *string
	Email   *string
	Message string
}

func (e ContactReceivedEvent) Name() string { return ContactReceived }
