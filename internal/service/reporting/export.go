package reporting

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/assetvista/internal/domain/models"
	"github.com/mamadbah2/assetvista/internal/service/notify"
)

// ExportFilename is the attachment name of the CSV report.
const ExportFilename = "asset_report.csv"

// WriteCSV writes records as a report: a header line then one line per
// record, every field double-quoted with inner quotes doubled.
func WriteCSV(w io.Writer, records []models.AssetRecord) error {
	bw := bufio.NewWriter(w)

	headers := make([]string, len(models.Columns))
	for i, c := range models.Columns {
		headers[i] = c.Header
	}
	writeLine(bw, headers)

	cells := make([]string, len(models.Columns))
	for _, rec := range records {
		for i, c := range models.Columns {
			cells[i] = rec.Text(c.Field)
		}
		writeLine(bw, cells)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write csv report: %w", err)
	}
	return nil
}

func writeLine(w *bufio.Writer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		w.WriteByte('"')
	}
	w.WriteByte('\n')
}

// ExportCSV writes the current collection as a CSV report and announces
// the outcome.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	records := s.source.Snapshot().Records()
	if err := WriteCSV(w, records); err != nil {
		s.logger.Error("export error", zap.Error(err))
		s.notifier.Notify(ctx, notify.Notification{Level: notify.LevelError, Title: "Failed to export report"})
		return err
	}
	s.notifier.Notify(ctx, notify.Notification{
		Level:   notify.LevelSuccess,
		Title:   "Report exported successfully",
		Message: fmt.Sprintf("%d assets exported", len(records)),
	})
	s.record(ctx, models.AuditEntry{
		Action:  models.AuditReportExported,
		Details: fmt.Sprintf("%d assets exported to %s", len(records), ExportFilename),
	})
	return nil
}

func (s *Service) record(ctx context.Context, entry models.AuditEntry) {
	if s.audit != nil {
		s.audit.Record(ctx, entry)
	}
}
