package hospital

import (
	"regexp"
	"time"
)

const (
	DaysPerWeek = 7
	SlotsPerDay = 5
)

// TimeSlots is the fixed set of bookable times. Slot labels are matched as
// exact strings everywhere.
var TimeSlots = [SlotsPerDay]string{"9AM", "11AM", "2PM", "4PM", "6PM"}

// Dates are validated by shape only: four digits, dash, two, dash, two.
// Calendar validity is deliberately not checked, so 2025-13-40 passes; this
// laxness is part of the contract, not an oversight to tighten.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func ValidDate(date string) bool {
	return datePattern.MatchString(date)
}

func ValidSlot(slot string) bool {
	return slotIndex(slot) >= 0
}

func slotIndex(slot string) int {
	for i, s := range TimeSlots {
		if s == slot {
			return i
		}
	}
	return -1
}

// IsSlotTaken reports whether a non-cancelled appointment already holds the
// exact (doctorID, date, timeSlot) triple. The appointment log is the single
// source of truth for conflicts; the per-doctor schedule grid is only a cache.
func IsSlotTaken(doctorID, date, timeSlot string, appointments []Appointment) bool {
	for _, a := range appointments {
		if a.Status == StatusCancelled {
			continue
		}
		if a.DoctorID == doctorID && a.Date == date && a.TimeSlot == timeSlot {
			return true
		}
	}
	return false
}

// DoctorFullyBooked reports whether every slot of the fixed set is taken for
// the doctor on the given date.
func DoctorFullyBooked(doctorID, date string, appointments []Appointment) bool {
	for _, slot := range TimeSlots {
		if !IsSlotTaken(doctorID, date, slot, appointments) {
			return false
		}
	}
	return true
}

// RefreshSchedule recomputes the doctor's availability grid from the
// appointment log. Dates that do not parse as real calendar dates are skipped;
// the grid is day-of-week based and cannot place them.
func (d *Doctor) RefreshSchedule(appointments []Appointment) {
	var grid [DaysPerWeek][SlotsPerDay]bool

	for _, a := range appointments {
		if a.DoctorID != d.ID || a.Status == StatusCancelled {
			continue
		}
		t, err := time.Parse("2006-01-02", a.Date)
		if err != nil {
			continue
		}
		si := slotIndex(a.TimeSlot)
		if si < 0 {
			continue
		}
		grid[int(t.Weekday())][si] = true
	}

	d.Schedule = grid
}

// MarkUnavailable lets a doctor block a grid cell outside of bookings, e.g.
// vacation. It only touches the cache, never the appointment log.
func (d *Doctor) MarkUnavailable(day, slot int) bool {
	if day < 0 || day >= DaysPerWeek || slot < 0 || slot >= SlotsPerDay {
		return false
	}
	d.Schedule[day][slot] = true
	return true
}

// SlotFree reads the cached grid.
func (d *Doctor) SlotFree(day, slot int) bool {
	if day < 0 || day >= DaysPerWeek || slot < 0 || slot >= SlotsPerDay {
		return false
	}
	return !d.Schedule[day][slot]
}
