package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/studyprep/internal/model"
)

// ReportContextSize is how many recent messages accompany an error report
const ReportContextSize = 3

// ErrInvalidReportType is returned for an unknown error category
var ErrInvalidReportType = errors.New("invalid report type")

// ParseErrorType validates a report category
func ParseErrorType(s string) (model.ErrorType, error) {
	t := model.ErrorType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range model.ErrorTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidReportType, s)
}

// BuildErrorReport captures a "Report Error" submission with the session's last messages
func BuildErrorReport(sess *Session, errorType, description, correctInfo string) (*model.ErrorReport, error) {
	t, err := ParseErrorType(errorType)
	if err != nil {
		return nil, err
	}

	return &model.ErrorReport{
		ID:             uuid.NewString(),
		SessionID:      sess.ID(),
		Timestamp:      time.Now().UTC(),
		ErrorType:      t,
		Description:    strings.TrimSpace(description),
		CorrectInfo:    strings.TrimSpace(correctInfo),
		MessageContext: sess.Last(ReportContextSize),
	}, nil
}

// ReportSink stores submitted error reports
type ReportSink interface {
	Submit(ctx context.Context, report *model.ErrorReport) error
}

// FileReportSink appends reports to a JSON lines file
type FileReportSink struct {
	path string
	mu   sync.Mutex
}

// NewFileReportSink creates a sink writing to path
func NewFileReportSink(path string) *FileReportSink {
	return &FileReportSink{path: path}
}

// Submit appends one report
func (s *FileReportSink) Submit(ctx context.Context, report *model.ErrorReport) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open report file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close report file: %w", closeErr)
		}
	}()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// MemoryReportSink keeps reports in memory
type MemoryReportSink struct {
	mu      sync.Mutex
	reports []*model.ErrorReport
}

// Submit records the report
func (s *MemoryReportSink) Submit(_ context.Context, report *model.ErrorReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, report)
	return nil
}

// Reports returns the recorded reports
func (s *MemoryReportSink) Reports() []*model.ErrorReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*model.ErrorReport(nil), s.reports...)
}
