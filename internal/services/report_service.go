package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"hvac-service/internal/dto"
	"hvac-service/internal/entities"
	"hvac-service/internal/repositories"
	"hvac-service/pkg/constants"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const reportSheet = "Work orders"

var reportHeaders = []string{
	"No.", "Work order", "Client", "Site", "Job type", "Status", "Scheduled",
	"Items", "Done", "Issues", "Completed at", "Rating",
}

type ReportServiceInterface interface {
	Summary(ctx context.Context) (*dto.ReportSummaryDTO, error)
	ExportWorkOrders(ctx context.Context, filter entities.ReportFilter) (*bytes.Buffer, error)
}

type ReportService struct {
	repo     repositories.ReportRepositoryInterface
	location *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

func NewReportService(repo repositories.ReportRepositoryInterface, location *time.Location, logger *zap.Logger) ReportServiceInterface {
	if location == nil {
		location = time.UTC
	}
	return &ReportService{repo: repo, location: location, now: time.Now, logger: logger}
}

// monthBounds returns the start of the current month and of the next one,
// both in the business time zone.
func (s *ReportService) monthBounds() (time.Time, time.Time) {
	now := s.now().In(s.location)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.location)
	return start, start.AddDate(0, 1, 0)
}

func (s *ReportService) Summary(ctx context.Context) (*dto.ReportSummaryDTO, error) {
	if _, err := requireRole(ctx, constants.RoleAdmin); err != nil {
		return nil, err
	}
	start, end := s.monthBounds()
	summary, err := s.repo.Summary(ctx, start, end)
	if err != nil {
		s.logger.Error("report summary failed", zap.Error(err))
		return nil, err
	}

	res := &dto.ReportSummaryDTO{
		Total:              summary.Total,
		ByStatus:           make([]dto.StatusCountDTO, 0, len(summary.ByStatus)),
		AverageRating:      summary.AverageRating,
		FeedbackCount:      summary.FeedbackCount,
		CompletedThisMonth: summary.CompletedThisMonth,
	}
	for _, sc := range summary.ByStatus {
		res.ByStatus = append(res.ByStatus, dto.StatusCountDTO{Status: string(sc.Status), Count: sc.Count})
	}
	return res, nil
}

func (s *ReportService) ExportWorkOrders(ctx context.Context, filter entities.ReportFilter) (*bytes.Buffer, error) {
	if _, err := requireRole(ctx, constants.RoleAdmin); err != nil {
		return nil, err
	}
	rows, err := s.repo.Rows(ctx, filter)
	if err != nil {
		s.logger.Error("report rows failed", zap.Error(err))
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(reportSheet, "A1", &reportHeaders); err != nil {
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(reportHeaders))
	if err := f.SetCellStyle(reportSheet, "A1", lastCol+"1", style); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := s.reportRow(i+1, row)
		if err := f.SetSheetRow(reportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write report row %d: %w", i+1, err)
		}
	}
	_ = f.SetColWidth(reportSheet, "B", "B", 16)
	_ = f.SetColWidth(reportSheet, "C", "D", 28)
	_ = f.SetColWidth(reportSheet, "G", "G", 14)
	_ = f.SetColWidth(reportSheet, "K", "K", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	s.logger.Info("work order report exported", zap.Int("rows", len(rows)))
	return buf, nil
}

func (s *ReportService) reportRow(n int, row entities.ReportRow) []interface{} {
	wo := entities.WorkOrder{ID: row.WorkOrderID, Number: row.Number}
	var completedAt, rating interface{}
	if row.CompletedAt != nil {
		completedAt = row.CompletedAt.In(s.location).Format("2006-01-02 15:04")
	}
	if row.Rating != nil {
		rating = *row.Rating
	}
	return []interface{}{
		n, DisplayNumber(&wo), row.ClientName, row.SiteName, string(row.JobType), string(row.Status),
		row.ScheduledDate.Format(dateLayout), row.ItemCount, row.DoneCount, row.IssueCount,
		completedAt, rating,
	}
}
