package timeutil

import (
	"fmt"
	"os"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/jp"
	"gopkg.in/yaml.v3"
)

const (
	// WorkingHoursStart is the first working hour (inclusive), JST.
	WorkingHoursStart = 9
	// WorkingHoursEnd is the end of working hours (exclusive), JST.
	WorkingHoursEnd = 19
)

// WorkingCalendar answers the working-hours question for the business
// timezone: Japanese public holidays plus optionally configured extra
// closed days, Monday through Friday, 09:00-19:00 JST.
type WorkingCalendar struct {
	business   *cal.BusinessCalendar
	closedDays map[string]bool
}

// NewWorkingCalendar builds a calendar with the Japanese public holiday set.
func NewWorkingCalendar() *WorkingCalendar {
	business := cal.NewBusinessCalendar()
	business.AddHoliday(jp.Holidays...)
	return &WorkingCalendar{
		business:   business,
		closedDays: make(map[string]bool),
	}
}

// closedDaysFile is the shape of the optional extra closed days YAML file.
type closedDaysFile struct {
	ClosedDays []string `yaml:"closed_days"`
}

// LoadClosedDays merges extra closed dates (company holidays, office closures)
// from a YAML file into the calendar.
func (w *WorkingCalendar) LoadClosedDays(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read closed days file: %w", err)
	}

	var file closedDaysFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse closed days file: %w", err)
	}

	for _, day := range file.ClosedDays {
		if _, err := time.ParseInLocation("2006-01-02", day, JST); err != nil {
			return fmt.Errorf("invalid closed day %q: %w", day, err)
		}
		w.closedDays[day] = true
	}
	return nil
}

// AddClosedDay marks a single date (JST) as closed.
func (w *WorkingCalendar) AddClosedDay(day time.Time) {
	w.closedDays[day.In(JST).Format("2006-01-02")] = true
}

// IsWorkingDay reports whether t falls on a JST working day: Monday-Friday,
// not a Japanese public holiday, not an extra closed day.
func (w *WorkingCalendar) IsWorkingDay(t time.Time) bool {
	t = t.In(JST)
	if w.closedDays[t.Format("2006-01-02")] {
		return false
	}
	return w.business.IsWorkday(t)
}

// IsWorkingHours reports whether t falls within working hours on a working
// day. The scheduling policy rejects these slots: in-hours meetings are
// reserved for human scheduling rather than auto-booking.
func (w *WorkingCalendar) IsWorkingHours(t time.Time) bool {
	t = t.In(JST)
	if !w.IsWorkingDay(t) {
		return false
	}
	hour := t.Hour()
	return hour >= WorkingHoursStart && hour < WorkingHoursEnd
}
