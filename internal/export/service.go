package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	pkgerrors "github.com/fuelguard/fuelguard-backend/pkg/errors"
	"github.com/fuelguard/fuelguard-backend/pkg/enums"
	"github.com/fuelguard/fuelguard-backend/pkg/logger"
)

const oversightSheet = "Forwarded Submissions"

var oversightHeaders = []string{
	"Submission ID",
	"Company",
	"Tax ID",
	"Station",
	"Station Slug",
	"Period",
	"Status",
	"Submitted At",
	"Forwarded At",
	"Decided At",
	"Forward Note",
	"Decision Reason",
}

// Workbook is a rendered spreadsheet ready to stream to a client.
type Workbook struct {
	Filename string
	Content  []byte
}

type Service interface {
	// OversightWorkbook renders the customs oversight queue as an xlsx
	// workbook. A nil status includes every forwarded submission.
	OversightWorkbook(ctx context.Context, status *enums.SubmissionStatus) (*Workbook, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
	now  func() time.Time
}

func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("export repository is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: repo, logg: logg, now: time.Now}, nil
}

func (s *service) OversightWorkbook(ctx context.Context, status *enums.SubmissionStatus) (*Workbook, error) {
	rows, err := s.repo.ListOversightRows(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load forwarded submissions")
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(oversightSheet)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create worksheet")
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F4E79"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to build header style")
	}
	for colIdx, header := range oversightHeaders {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(oversightSheet, cell, header)
		f.SetCellStyle(oversightSheet, cell, cell, headerStyle)
	}
	f.SetColWidth(oversightSheet, "A", "A", 38)
	f.SetColWidth(oversightSheet, "B", "E", 24)
	f.SetColWidth(oversightSheet, "F", "J", 18)
	f.SetColWidth(oversightSheet, "K", "L", 40)

	for rowIdx, row := range rows {
		values := []any{
			row.SubmissionID,
			row.CompanyName,
			row.CompanyTaxID,
			row.StationName,
			row.StationSlug,
			fmt.Sprintf("%04d-%02d P%d", row.Year, row.Month, row.PeriodNumber),
			string(row.Status),
			formatTimestamp(row.SubmittedAt),
			formatTimestamp(row.ForwardedAt),
			formatTimestamp(row.DecidedAt),
			row.ForwardNote,
			row.ReturnReason,
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(oversightSheet, cell, value)
		}
	}

	summaryRow := len(rows) + 3
	cell, _ := excelize.CoordinatesToCellName(1, summaryRow)
	f.SetCellValue(oversightSheet, cell, fmt.Sprintf("Total forwarded submissions: %d", len(rows)))
	cell, _ = excelize.CoordinatesToCellName(1, summaryRow+1)
	f.SetCellValue(oversightSheet, cell, fmt.Sprintf("Generated: %s", s.now().UTC().Format("2006-01-02 15:04:05 UTC")))

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to write workbook")
	}

	s.logg.Info(s.logg.WithField(ctx, "rows", len(rows)), "oversight workbook generated")
	return &Workbook{
		Filename: fmt.Sprintf("oversight_submissions_%s.xlsx", s.now().UTC().Format("20060102_150405")),
		Content:  buf.Bytes(),
	}, nil
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}
