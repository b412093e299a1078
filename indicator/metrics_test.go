package indicator

import (
	"errors"
	"testing"
	"time"
)

func TestLatestAndChangeDayLookback(t *testing.T) {
	s := Series{
		{Date: Day(2024, time.January, 1), Value: 100},
		{Date: Day(2024, time.January, 2), Value: 110},
	}

	m, err := LatestAndChange(s, Lookback{Unit: LookbackDay})
	if err != nil {
		t.Fatalf("LatestAndChange: %v", err)
	}

	if m.Latest.Value != 110 || !m.Latest.Date.Equal(Day(2024, time.January, 2)) {
		t.Errorf("latest = %v @ %s, want 110 @ 2024-01-02", m.Latest.Value, m.Latest.Date)
	}
	if m.Reference == nil || m.Reference.Value != 100 {
		t.Fatalf("reference = %v, want 100 @ 2024-01-01", m.Reference)
	}
	if m.PercentChange != 10.0 {
		t.Errorf("percentChange = %v, want 10.0", m.PercentChange)
	}
}

func TestLatestAndChangeEmptySeries(t *testing.T) {
	_, err := LatestAndChange(nil, Lookback{Unit: LookbackDay})
	if !errors.Is(err, ErrEmptySeries) {
		t.Errorf("err = %v, want ErrEmptySeries", err)
	}
}

func TestLatestAndChangeUnsortedInput(t *testing.T) {
	// Latest must be found regardless of input order.
	s := Series{
		{Date: Day(2024, time.March, 10), Value: 50},
		{Date: Day(2024, time.March, 12), Value: 80},
		{Date: Day(2024, time.March, 11), Value: 60},
	}

	m, err := LatestAndChange(s, Lookback{Unit: LookbackDay})
	if err != nil {
		t.Fatalf("LatestAndChange: %v", err)
	}
	if m.Latest.Value != 80 {
		t.Errorf("latest = %v, want 80", m.Latest.Value)
	}
	if m.Reference == nil || m.Reference.Value != 60 {
		t.Errorf("reference = %v, want the 2024-03-11 observation", m.Reference)
	}
}

func TestLatestAndChangeZeroReferenceValue(t *testing.T) {
	s := Series{
		{Date: Day(2024, time.January, 1), Value: 0},
		{Date: Day(2024, time.January, 2), Value: 42},
	}

	m, err := LatestAndChange(s, Lookback{Unit: LookbackDay})
	if err != nil {
		t.Fatalf("LatestAndChange: %v", err)
	}
	if m.PercentChange != 0 {
		t.Errorf("percentChange with zero reference = %v, want 0", m.PercentChange)
	}
}

func TestLatestAndChangeMonthLookbackNearest(t *testing.T) {
	// No observation exactly one month back; nearest wins.
	s := Series{
		{Date: Day(2024, time.February, 13), Value: 200},
		{Date: Day(2024, time.February, 17), Value: 210},
		{Date: Day(2024, time.March, 15), Value: 231},
	}

	m, err := LatestAndChange(s, Lookback{Unit: LookbackMonth})
	if err != nil {
		t.Fatalf("LatestAndChange: %v", err)
	}
	if m.Reference == nil || m.Reference.Value != 200 {
		t.Errorf("reference = %v, want 200 @ 2024-02-13 (nearest to 2024-02-15)", m.Reference)
	}
	if got := m.PercentChange; got != 15.5 {
		t.Errorf("percentChange = %v, want 15.5", got)
	}
}

func TestLatestAndChangeNearestTieBreaksEarlier(t *testing.T) {
	// 2024-03-14 and 2024-03-16 are equally distant from the target
	// 2024-03-15; the earlier date must win.
	s := Series{
		{Date: Day(2024, time.March, 14), Value: 1},
		{Date: Day(2024, time.March, 16), Value: 2},
		{Date: Day(2024, time.March, 17), Value: 3},
	}

	m, err := LatestAndChange(s, Lookback{Unit: LookbackDay})
	if err != nil {
		t.Fatalf("LatestAndChange: %v", err)
	}
	// Latest is 03-17, target 03-16: exact match, value 2.
	if m.Reference == nil || m.Reference.Value != 2 {
		t.Fatalf("reference = %v, want 2 @ 2024-03-16", m.Reference)
	}

	// Symmetric layout: 03-15 and 03-17 are both one day from target 03-16.
	s = Series{
		{Date: Day(2024, time.March, 13), Value: 7},
		{Date: Day(2024, time.March, 17), Value: 9},
		{Date: Day(2024, time.March, 15), Value: 8},
	}
	m, err = LatestAndChange(s, Lookback{Unit: LookbackDay})
	if err != nil {
		t.Fatalf("LatestAndChange: %v", err)
	}
	if m.Reference == nil || m.Reference.Value != 8 {
		t.Errorf("reference = %v, want 8 @ 2024-03-15 (earlier of the tied dates)", m.Reference)
	}
}

func TestLatestAndChangeIndexLookback(t *testing.T) {
	s := Series{
		{Date: Day(2024, time.March, 11), Value: 10},
		{Date: Day(2024, time.March, 12), Value: 20},
		{Date: Day(2024, time.March, 13), Value: 30},
		{Date: Day(2024, time.March, 14), Value: 60},
	}

	m, err := LatestAndChange(s, Lookback{Unit: LookbackDay, Periods: 2})
	if err != nil {
		t.Fatalf("LatestAndChange: %v", err)
	}
	if m.Reference == nil || m.Reference.Value != 20 {
		t.Fatalf("reference = %v, want 20 (two index positions back)", m.Reference)
	}
	if m.PercentChange != 200 {
		t.Errorf("percentChange = %v, want 200", m.PercentChange)
	}
}

func TestLatestAndChangeIndexLookbackOutOfRange(t *testing.T) {
	s := Series{
		{Date: Day(2024, time.March, 11), Value: 10},
		{Date: Day(2024, time.March, 12), Value: 20},
	}

	m, err := LatestAndChange(s, Lookback{Unit: LookbackDay, Periods: 5})
	if err != nil {
		t.Fatalf("LatestAndChange: %v", err)
	}
	if m.Reference != nil {
		t.Errorf("reference = %v, want absent when looking back past the start", m.Reference)
	}
	if m.PercentChange != 0 {
		t.Errorf("percentChange = %v, want 0 with an absent reference", m.PercentChange)
	}
}

func TestSortedCopiesDoNotMutate(t *testing.T) {
	s := Series{
		{Date: Day(2024, time.March, 12), Value: 2},
		{Date: Day(2024, time.March, 11), Value: 1},
	}

	asc := s.Ascending()
	desc := s.Descending()

	if s[0].Value != 2 {
		t.Error("Ascending/Descending must not mutate the original series")
	}
	if asc[0].Value != 1 || desc[0].Value != 2 {
		t.Errorf("asc[0]=%v desc[0]=%v, want 1 and 2", asc[0].Value, desc[0].Value)
	}
}
