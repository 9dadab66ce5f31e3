package rental

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestSettle(t *testing.T) {
	cases := []struct {
		name      string
		rentedAgo time.Duration
		dueIn     time.Duration
		wantTotal float64
		wantLate  float64
	}{
		{name: "same day return charges one day", rentedAgo: time.Hour, dueIn: 48 * time.Hour, wantTotal: 2, wantLate: 0},
		{name: "partial day rounds up", rentedAgo: 49 * time.Hour, dueIn: time.Hour, wantTotal: 6, wantLate: 0},
		{name: "one hour late is one overdue day", rentedAgo: 72 * time.Hour, dueIn: -time.Hour, wantTotal: 9, wantLate: 3},
		{name: "three days late", rentedAgo: 10 * 24 * time.Hour, dueIn: -3 * 24 * time.Hour, wantTotal: 29, wantLate: 9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Rental{
				RentalDate: fixedNow.Add(-tc.rentedAgo),
				DueDate:    fixedNow.Add(tc.dueIn),
				DailyRate:  2,
				Status:     StatusActive,
			}
			got := settle(r, fixedNow, DefaultLateFeeMultiplier)
			require.True(t, got.IsReturned)
			require.Equal(t, StatusReturned, got.Status)
			require.NotNil(t, got.ReturnDate)
			require.True(t, got.ReturnDate.Equal(fixedNow))
			require.NotNil(t, got.TotalAmount)
			require.InDelta(t, tc.wantTotal, *got.TotalAmount, 0.001)
			require.InDelta(t, tc.wantLate, got.LateFee, 0.001)
		})
	}
}

func TestSettleRoundsToCents(t *testing.T) {
	r := Rental{RentalDate: fixedNow.Add(-time.Hour), DueDate: fixedNow.Add(time.Hour), DailyRate: 0.333}
	got := settle(r, fixedNow, DefaultLateFeeMultiplier)
	require.Equal(t, 0.33, *got.TotalAmount)
}

func TestPresentMarksOverdue(t *testing.T) {
	active := Rental{DueDate: fixedNow.Add(-time.Minute), Status: StatusActive}
	require.Equal(t, StatusOverdue, present(active, fixedNow).Status)

	notYet := Rental{DueDate: fixedNow.Add(time.Minute), Status: StatusActive}
	require.Equal(t, StatusActive, present(notYet, fixedNow).Status)

	returned := Rental{DueDate: fixedNow.Add(-time.Minute), Status: StatusReturned, IsReturned: true}
	require.Equal(t, StatusReturned, present(returned, fixedNow).Status)
}

func TestParseDueDate(t *testing.T) {
	for _, raw := range []string{"2025-03-05", "2025-03-05T00:00:00", "2025-03-05T00:00:00Z", "2025-03-05T02:00:00+02:00"} {
		got, err := parseDueDate(raw)
		require.NoError(t, err, raw)
		require.True(t, got.Equal(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)), raw)
	}

	_, err := parseDueDate("")
	require.Error(t, err)
	_, err = parseDueDate("next week")
	require.Error(t, err)
}
