package delivery

import (
	"fmt"
	"sort"
	"time"
)

// MaxAdvanceDays bounds how far ahead slots can be requested.
const MaxAdvanceDays = 7

// BookedFunc reports how many orders are already booked for the hourly window
// starting at startHour on the given date. The order subsystem supplies it;
// the core never reads order storage itself.
type BookedFunc func(date time.Time, startHour int) int

// NoBookings treats every window as empty. Wiring default until the order
// subsystem is attached.
func NoBookings(time.Time, int) int { return 0 }

// SlotProvider computes open delivery windows from a seller's weekly
// calendar.
type SlotProvider struct {
	now func() time.Time
}

func NewSlotProvider() *SlotProvider {
	return &SlotProvider{now: time.Now}
}

// Slots returns the ordered hourly windows for the requested date. Dates
// outside [today, today+7d] are a validation error, not a feasibility
// failure. Weekdays with no configured windows yield an empty list.
func (s *SlotProvider) Slots(policy Policy, date time.Time, booked BookedFunc) ([]Slot, error) {
	if booked == nil {
		booked = NoBookings
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if day.Before(today) || day.After(today.AddDate(0, 0, MaxAdvanceDays)) {
		return nil, fmt.Errorf("%w: %s", ErrDateOutOfRange, day.Format("2006-01-02"))
	}

	slots := []Slot{}
	for _, w := range policy.Windows {
		if w.Weekday != day.Weekday() {
			continue
		}
		for h := w.StartHour; h < w.EndHour; h++ {
			remaining := w.MaxOrdersPerHour - booked(day, h)
			if remaining < 0 {
				remaining = 0
			}
			slots = append(slots, Slot{
				Date:              day.Format("2006-01-02"),
				StartTime:         fmt.Sprintf("%02d:00", h),
				EndTime:           fmt.Sprintf("%02d:00", h+1),
				RemainingCapacity: remaining,
			})
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].StartTime < slots[j].StartTime })

	return slots, nil
}
