package services

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/repodeck/repodeck/internal/models"
)

type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// WriteXLSX writes the repository list, with health columns where
// available, as an xlsx workbook.
func (s *ExportService) WriteXLSX(w io.Writer, repos []models.RepositoryWithHealth) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Repositories"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to set sheet name: %w", err)
	}

	headers := []string{
		"Name", "Owner", "Description", "Private", "Fork", "Archived",
		"Size (KB)", "Stars", "Forks", "Watchers", "Updated", "Pushed",
		"Health Score", "Health Status", "Issues",
	}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}

	for row, repo := range repos {
		values := []interface{}{
			repo.Name,
			repo.Owner,
			stringOrEmpty(repo.Description),
			repo.Private,
			repo.Fork,
			repo.Archived,
			repo.Size,
			repo.Stars,
			repo.Forks,
			repo.Watchers,
			repo.UpdatedAt.Format("2006-01-02"),
			"",
			"",
			"",
			"",
		}
		if repo.PushedAt != nil {
			values[11] = repo.PushedAt.Format("2006-01-02")
		}
		if repo.Health != nil {
			values[12] = repo.Health.Score
			values[13] = string(repo.Health.Status)
			values[14] = len(repo.Health.Issues)
		}

		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
