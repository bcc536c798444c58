package constants

type WorkOrderStatus string

const (
	WorkOrderOpen            WorkOrderStatus = "OPEN"
	WorkOrderInProgress      WorkOrderStatus = "IN_PROGRESS"
	WorkOrderWaitingApproval WorkOrderStatus = "WAITING_APPROVAL"
	WorkOrderApproved        WorkOrderStatus = "APPROVED"
	WorkOrderRejected        WorkOrderStatus = "REJECTED"
	WorkOrderCompleted       WorkOrderStatus = "COMPLETED"
	WorkOrderCancelled       WorkOrderStatus = "CANCELLED"
)

type JobItemStatus string

const (
	JobItemPending    JobItemStatus = "PENDING"
	JobItemInProgress JobItemStatus = "IN_PROGRESS"
	JobItemDone       JobItemStatus = "DONE"
	JobItemIssueFound JobItemStatus = "ISSUE_FOUND"
)

type JobType string

const (
	JobTypePM JobType = "PM"
	JobTypeCM JobType = "CM"
)

type ApprovalDecision string

const (
	DecisionApprove ApprovalDecision = "APPROVE"
	DecisionReject  ApprovalDecision = "REJECT"
)

// workOrderTransitions maps a target status to the statuses it may be entered from.
// APPROVED and REJECTED are only entered through an approval decision.
var workOrderTransitions = map[WorkOrderStatus][]WorkOrderStatus{
	WorkOrderInProgress:      {WorkOrderOpen, WorkOrderApproved},
	WorkOrderWaitingApproval: {WorkOrderOpen, WorkOrderInProgress, WorkOrderRejected},
	WorkOrderApproved:        {WorkOrderWaitingApproval},
	WorkOrderRejected:        {WorkOrderWaitingApproval},
	WorkOrderCompleted:       {WorkOrderInProgress, WorkOrderApproved, WorkOrderRejected},
	WorkOrderCancelled: {
		WorkOrderOpen, WorkOrderInProgress, WorkOrderWaitingApproval,
		WorkOrderApproved, WorkOrderRejected,
	},
}

var jobItemTransitions = map[JobItemStatus][]JobItemStatus{
	JobItemInProgress: {JobItemPending},
	JobItemDone:       {JobItemInProgress},
	JobItemIssueFound: {JobItemInProgress},
}

// AllowedFrom returns the statuses a work order may be in to move to target.
func AllowedFrom(target WorkOrderStatus) []WorkOrderStatus {
	return workOrderTransitions[target]
}

func CanTransition(from, to WorkOrderStatus) bool {
	for _, s := range workOrderTransitions[to] {
		if s == from {
			return true
		}
	}
	return false
}

// IsManualTarget reports whether staff may request the status directly
// rather than through the approval page.
func IsManualTarget(to WorkOrderStatus) bool {
	return to != WorkOrderApproved && to != WorkOrderRejected && to != WorkOrderOpen
}

func IsTerminal(s WorkOrderStatus) bool {
	return s == WorkOrderCompleted || s == WorkOrderCancelled
}

func JobItemAllowedFrom(target JobItemStatus) []JobItemStatus {
	return jobItemTransitions[target]
}

func CanTransitionJobItem(from, to JobItemStatus) bool {
	for _, s := range jobItemTransitions[to] {
		if s == from {
			return true
		}
	}
	return false
}

func IsJobItemFinished(s JobItemStatus) bool {
	return s == JobItemDone || s == JobItemIssueFound
}

func (s WorkOrderStatus) Valid() bool {
	switch s {
	case WorkOrderOpen, WorkOrderInProgress, WorkOrderWaitingApproval, WorkOrderApproved,
		WorkOrderRejected, WorkOrderCompleted, WorkOrderCancelled:
		return true
	}
	return false
}

func StatusStrings(in []WorkOrderStatus) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}

func JobItemStatusStrings(in []JobItemStatus) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}
