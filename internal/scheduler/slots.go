package scheduler

import (
	"context"
	"fmt"

	"github.com/Fazalwahab12/shift-backend-sub002/internal/common"
	"github.com/Fazalwahab12/shift-backend-sub002/pkg/models"
)

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%02d:%02d", &h, &m); err != nil {
		return 0, common.NewError(common.CodeValidation, fmt.Sprintf("invalid time %q, want HH:MM", s))
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, common.NewError(common.CodeValidation, fmt.Sprintf("invalid time %q", s))
	}
	return h*60 + m, nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// addMinutes derives an end time from a start clock and a duration.
func addMinutes(start string, duration int) (string, error) {
	m, err := parseClock(start)
	if err != nil {
		return "", err
	}
	return formatClock(m + duration), nil
}

// validateWindow checks that [start, end) fits inside business hours. Requests
// are free to start off the enumeration grid; overlap detection handles them.
func (s *Scheduler) validateWindow(start, end string) error {
	open, err := parseClock(s.cfg.BusinessStart)
	if err != nil {
		return err
	}
	close_, err := parseClock(s.cfg.BusinessEnd)
	if err != nil {
		return err
	}
	startMin, err := parseClock(start)
	if err != nil {
		return err
	}
	endMin, err := parseClock(end)
	if err != nil {
		return err
	}
	if startMin < open || endMin > close_ {
		return common.NewError(common.CodeValidation,
			fmt.Sprintf("slot %s-%s is outside business hours %s-%s", start, end, s.cfg.BusinessStart, s.cfg.BusinessEnd))
	}
	return nil
}

// overlaps is the half-open interval test: [aStart, aEnd) and [bStart, bEnd)
// overlap iff aStart < bEnd && aEnd > bStart. Zero-padded HH:MM strings
// compare correctly as text.
func overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && aEnd > bStart
}

// AvailableSlots enumerates free fixed-size slots across the business-hours
// window for a company on a date, excluding any slot overlapping an active
// interview. Pure given the snapshot of existing interviews; slots are
// returned in chronological order.
func (s *Scheduler) AvailableSlots(ctx context.Context, companyID, date string, duration int) ([]models.TimeSlot, error) {
	if duration <= 0 {
		duration = s.cfg.DefaultDuration
	}
	open, err := parseClock(s.cfg.BusinessStart)
	if err != nil {
		return nil, err
	}
	close_, err := parseClock(s.cfg.BusinessEnd)
	if err != nil {
		return nil, err
	}

	existing, err := s.interviews.ListActiveByCompanyAndDate(ctx, companyID, date)
	if err != nil {
		return nil, err
	}

	slots := []models.TimeSlot{}
	for start := open; start+duration <= close_; start += s.cfg.SlotStepMinutes {
		slotStart := formatClock(start)
		slotEnd := formatClock(start + duration)
		free := true
		for _, iv := range existing {
			if overlaps(slotStart, slotEnd, iv.StartTime, iv.EndTime) {
				free = false
				break
			}
		}
		if free {
			slots = append(slots, models.TimeSlot{StartTime: slotStart, EndTime: slotEnd})
		}
	}
	return slots, nil
}
