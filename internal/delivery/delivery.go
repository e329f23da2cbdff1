// Package delivery generates the Friday-to-Sunday evening delivery calendar.
package delivery

import (
	"time"

	"dinekart/internal/model"
)

// TimeSlots are the bookable evening marks, in order.
var TimeSlots = []string{"18:00", "18:30", "19:00", "19:30", "20:00", "20:30", "21:00"}

// Config controls the delivery calendar.
type Config struct {
	// LeadDays is how many days ahead the first bookable date is.
	LeadDays int
	// WindowDays is how many days are scanned from the first bookable date.
	WindowDays int
	// Location is the time zone "today" is computed in.
	Location *time.Location
	// RevalidateLeadTime makes ValidateSlot also re-check the lead time against the clock.
	RevalidateLeadTime bool
}

// DefaultConfig starts a week out and scans twelve weeks.
func DefaultConfig() Config {
	return Config{LeadDays: 7, WindowDays: 84, Location: time.UTC}
}

// Generator produces delivery dates from an injected clock.
type Generator struct {
	cfg Config
	now func() time.Time
}

// NewGenerator creates a generator. A nil clock uses time.Now.
func NewGenerator(cfg Config, now func() time.Time) *Generator {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{cfg: cfg, now: now}
}

// IsDeliveryDay reports whether d falls on Friday, Saturday or Sunday.
func IsDeliveryDay(d time.Time) bool {
	switch d.Weekday() {
	case time.Friday, time.Saturday, time.Sunday:
		return true
	}
	return false
}

// IsTimeSlot reports whether s is one of the bookable marks.
func IsTimeSlot(s string) bool {
	for _, slot := range TimeSlots {
		if slot == s {
			return true
		}
	}
	return false
}

func (g *Generator) today() model.Date {
	return model.NewDate(g.now().In(g.cfg.Location))
}

// earliest is the first date a delivery may be booked for.
func (g *Generator) earliest() model.Date {
	return model.Date{Time: g.today().AddDate(0, 0, g.cfg.LeadDays)}
}

// AvailableDates returns every Friday, Saturday and Sunday in
// [today+LeadDays, today+LeadDays+WindowDays), ascending. It is recomputed on each call.
func (g *Generator) AvailableDates() []model.Date {
	start := g.earliest()
	dates := make([]model.Date, 0, g.cfg.WindowDays*3/7+3)
	for i := 0; i < g.cfg.WindowDays; i++ {
		d := start.AddDate(0, 0, i)
		if IsDeliveryDay(d) {
			dates = append(dates, model.Date{Time: d})
		}
	}
	return dates
}

// Slots is the API view of the calendar.
type Slots struct {
	Dates []model.Date `json:"dates"`
	Times []string     `json:"times"`
}

// Available returns the dates and time marks together.
func (g *Generator) Available() Slots {
	times := make([]string, len(TimeSlots))
	copy(times, TimeSlots)
	return Slots{Dates: g.AvailableDates(), Times: times}
}

// ValidateSlot checks that a slot is complete and well formed. With RevalidateLeadTime
// it also rejects dates that are now inside the lead time or past the window.
func (g *Generator) ValidateSlot(slot model.DeliverySlot) error {
	if slot.Date.IsZero() || slot.Time == "" {
		return model.ErrMissingDeliverySlot
	}
	if !IsTimeSlot(slot.Time) || !IsDeliveryDay(slot.Date.Time) {
		return model.ErrInvalidDeliverySlot
	}

	if g.cfg.RevalidateLeadTime {
		earliest := g.earliest()
		latest := earliest.AddDate(0, 0, g.cfg.WindowDays)
		if slot.Date.Before(earliest.Time) || !slot.Date.Before(latest) {
			return model.ErrInvalidDeliverySlot
		}
	}

	return nil
}
