package serviceImp

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"feedbackgen/pkg/prompt"
)

const exportSheet = "Feedbacks"

var exportHeader = []string{"Data", "Aluno", "UC", "Atividade", "Nota", "Feedback", "Sugestões", "Editado"}

// ExportXLSX writes the history, newest first, as a workbook with one row per feedback.
// The displayed content (edited when present) is exported.
func (s *store) ExportXLSX(w io.Writer) error {
	x := excelize.NewFile()
	defer x.Close()

	if err := x.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}
	if err := x.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return err
	}

	for i, rec := range s.ListDescending() {
		shown := rec.Displayed()
		edited := "não"
		if rec.EditedFeedback != nil {
			edited = "sim"
		}
		row := []any{
			rec.CreatedAt.Format("2006-01-02 15:04"),
			rec.StudentName,
			rec.UC,
			rec.ActivityTitle,
			prompt.FormatGrade(rec.Grade),
			shown.FeedbackText,
			strings.Join(shown.ActionableSuggestions, "\n"),
			edited,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := x.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := x.SetColWidth(exportSheet, "F", "G", 60); err != nil {
		return err
	}
	_, err := x.WriteTo(w)
	return err
}
