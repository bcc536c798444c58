package services

import (
	"hvac-service/internal/dto"
	"hvac-service/internal/entities"
)

const dateLayout = "2006-01-02"

func workOrderToDTO(wo *entities.WorkOrder) dto.WorkOrderDTO {
	return dto.WorkOrderDTO{
		ID:              wo.ID,
		Number:          wo.Number,
		DisplayNumber:   DisplayNumber(wo),
		SiteID:          wo.SiteID,
		SiteName:        wo.SiteName,
		JobType:         string(wo.JobType),
		Status:          string(wo.Status),
		ScheduledDate:   wo.ScheduledDate.Format(dateLayout),
		Description:     wo.Description,
		ApprovedAt:      wo.ApprovedAt,
		RejectedAt:      wo.RejectedAt,
		RejectionReason: wo.RejectionReason,
		CompletedAt:     wo.CompletedAt,
		CancelledAt:     wo.CancelledAt,
		CreatedAt:       wo.CreatedAt,
	}
}

func jobItemToDTO(ji *entities.JobItem) dto.JobItemDTO {
	return dto.JobItemDTO{
		ID:             ji.ID,
		WorkOrderID:    ji.WorkOrderID,
		AssetID:        ji.AssetID,
		AssetType:      string(ji.AssetType),
		AssetQRCode:    ji.AssetQRCode,
		AssetBrand:     ji.AssetBrand,
		AssetModel:     ji.AssetModel,
		TechnicianID:   ji.TechnicianID,
		TechnicianName: ji.TechnicianName,
		Status:         string(ji.Status),
		TechNote:       ji.TechNote,
		Checklist:      ji.Checklist,
		StartedAt:      ji.StartedAt,
		FinishedAt:     ji.FinishedAt,
	}
}

func jobPhotoToDTO(p *entities.JobPhoto) dto.JobPhotoDTO {
	return dto.JobPhotoDTO{
		ID:        p.ID,
		JobItemID: p.JobItemID,
		PhotoType: string(p.PhotoType),
		URL:       p.URL,
		Caption:   p.Caption,
		CreatedAt: p.CreatedAt,
	}
}

func userToDTO(u *entities.User) dto.UserDTO {
	return dto.UserDTO{
		ID:         u.ID,
		Username:   u.Username,
		FullName:   u.FullName,
		Email:      u.Email,
		Phone:      u.Phone,
		Role:       string(u.Role),
		ClientID:   u.ClientID,
		SiteID:     u.SiteID,
		LineLinked: u.HasLine(),
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt,
	}
}

func feedbackToDTO(f *entities.Feedback) dto.FeedbackDTO {
	return dto.FeedbackDTO{
		ID:          f.ID,
		WorkOrderID: f.WorkOrderID,
		UserID:      f.UserID,
		UserName:    f.UserName,
		Rating:      f.Rating,
		Comment:     f.Comment,
		CreatedAt:   f.CreatedAt,
	}
}

func notificationToDTO(n *entities.Notification) dto.NotificationDTO {
	return dto.NotificationDTO{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		RelatedID: n.RelatedID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
