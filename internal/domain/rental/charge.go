package rental

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/yanqian/book-rental/pkg/util"
)

var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseDueDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("due_date is required")
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("due_date must be an ISO 8601 date or timestamp")
}

// settle fills in the return fields of r as of now.
// Charged days round up with a one day minimum; each overdue day also costs
// rate times multiplier.
func settle(r Rental, now time.Time, multiplier float64) Rental {
	days := util.CeilDays(now.Sub(r.RentalDate))
	if days < 1 {
		days = 1
	}
	overdue := util.CeilDays(now.Sub(r.DueDate))
	lateFee := roundCents(float64(overdue) * r.DailyRate * multiplier)
	total := roundCents(float64(days)*r.DailyRate + lateFee)

	returned := now
	r.ReturnDate = &returned
	r.LateFee = lateFee
	r.TotalAmount = &total
	r.IsReturned = true
	r.Status = StatusReturned
	r.UpdatedAt = now
	return r
}

// present derives the overdue status for reads.
func present(r Rental, now time.Time) Rental {
	if !r.IsReturned && now.After(r.DueDate) {
		r.Status = StatusOverdue
	}
	return r
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
