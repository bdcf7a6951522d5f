package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pawsched/pawsched-api/internal/models"
	"github.com/pawsched/pawsched-api/internal/scheduling"
	appErrors "github.com/pawsched/pawsched-api/pkg/errors"
	"github.com/pawsched/pawsched-api/pkg/export"
)

// ExportFile is a rendered document ready to be streamed to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

type trainingLoader interface {
	Get(ctx context.Context, id string) (*models.TrainingSchedule, error)
}

// TrainingExportService renders the visible part of a training plan as a grid
// with one column per visible day and one row per session time.
type TrainingExportService struct {
	schedules trainingLoader
	logger    *zap.Logger
}

// NewTrainingExportService constructs the export service.
func NewTrainingExportService(schedules trainingLoader, logger *zap.Logger) *TrainingExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrainingExportService{schedules: schedules, logger: logger}
}

// Export renders the schedule in the requested format.
func (s *TrainingExportService) Export(ctx context.Context, id, format string) (*ExportFile, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	sched, err := s.schedules.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	body, err := export.Render(f, TrainingGrid(sched))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render training schedule")
	}
	s.logger.Debug("training schedule exported", zap.String("schedule_id", id), zap.String("format", string(f)), zap.Int("bytes", len(body)))

	return &ExportFile{
		Filename:    fmt.Sprintf("training-%s-%s.%s", sched.WeekStartDate.Format(models.DateLayout), sched.ID, f.Extension()),
		ContentType: f.ContentType(),
		Body:        body,
	}, nil
}

// TrainingGrid lays out the visible days of a plan as a table.
func TrainingGrid(sched *models.TrainingSchedule) export.Table {
	dates := scheduling.ResolveVisibleDates(sched.WeekStartDate, sched.DayPlanCount)

	headers := make([]string, 0, len(dates)+1)
	headers = append(headers, "Time")
	for _, d := range dates {
		headers = append(headers, fmt.Sprintf("%s %s", d.Day, d.Date))
	}

	cells := make(map[string]map[string]string)
	for _, plan := range sched.Schedule {
		if !scheduling.IsVisible(plan.Day, sched.DayPlanCount) {
			continue
		}
		for _, sess := range plan.Sessions {
			if cells[sess.Time] == nil {
				cells[sess.Time] = make(map[string]string)
			}
			cells[sess.Time][plan.Day] = sessionCell(sess)
		}
	}
	times := make([]string, 0, len(cells))
	for t := range cells {
		times = append(times, t)
	}
	sortTimesOfDay(times)

	rows := make([][]string, 0, len(times))
	for _, t := range times {
		row := make([]string, 0, len(headers))
		row = append(row, t)
		for _, d := range dates {
			row = append(row, cells[t][d.Day])
		}
		rows = append(rows, row)
	}

	return export.Table{
		Title:    "Training plan",
		Subtitle: fmt.Sprintf("Week of %s, %d days", sched.WeekStartDate.Format(models.DateLayout), sched.DayPlanCount),
		Headers:  headers,
		Rows:     rows,
	}
}

var timeOfDayLayouts = []string{"15:04", "3:04 PM", "3:04PM", "3:04 pm", "3:04pm"}

func minuteOfDay(label string) (int, bool) {
	label = strings.TrimSpace(label)
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, label); err == nil {
			return t.Hour()*60 + t.Minute(), true
		}
	}
	return 0, false
}

// sortTimesOfDay orders session labels chronologically. Labels that are not
// clock times sort after them in string order.
func sortTimesOfDay(times []string) {
	sort.SliceStable(times, func(i, j int) bool {
		mi, okI := minuteOfDay(times[i])
		mj, okJ := minuteOfDay(times[j])
		switch {
		case okI && okJ:
			if mi != mj {
				return mi < mj
			}
			return times[i] < times[j]
		case okI != okJ:
			return okI
		}
		return times[i] < times[j]
	})
}

func sessionCell(s models.Session) string {
	parts := make([]string, 0, 3)
	if s.TrainingType != "" {
		parts = append(parts, s.TrainingType)
	}
	parts = append(parts, fmt.Sprintf("(%s, %s)", s.Duration, s.Status))
	if s.Notes != "" {
		parts = append(parts, s.Notes)
	}
	return strings.Join(parts, " ")
}
