package domain

import (
	"math"
	"time"
)

// Efficiency level bands.
const (
	LevelExcellent        = "Excellent"
	LevelGood             = "Good"
	LevelNeedsImprovement = "Needs improvement"
	// LevelInsufficientData is the neutral placeholder used when the user has
	// no assigned tasks and a score cannot be computed.
	LevelInsufficientData = "Insufficient data"
)

// EfficiencyReport summarizes a user's completion and punctuality history
// across every task assigned to them, in any project.
type EfficiencyReport struct {
	TotalAssigned int    `json:"totalAssigned"`
	Completed     int    `json:"completed"`
	OnTime        int    `json:"onTime"`
	OverdueOpen   int    `json:"overdueOpen"`
	Score         *int   `json:"score"` // nil when TotalAssigned == 0
	Level         string `json:"level"`
}

// ComputeEfficiency scores the given assigned-task set at the reference time
// now. The formula weighs completion 60%, punctuality 40%, and deducts 20%
// for open overdue tasks; the result is clamped to [0,100] and rounded.
//
// A done-but-unconfirmed task past its due date still counts as overdue: the
// work is not closed until the creator signs off.
func ComputeEfficiency(assigned []Task, now time.Time) EfficiencyReport {
	r := EfficiencyReport{TotalAssigned: len(assigned)}

	today := startOfDay(now)
	for _, t := range assigned {
		completed := t.Status == TaskDone || t.Status == TaskClosed
		if completed {
			r.Completed++
			if t.DueDate != nil && t.CompletedAt != nil &&
				!t.CompletedAt.After(endOfDay(*t.DueDate)) {
				r.OnTime++
			}
		}
		if t.DueDate != nil && t.DueDate.Before(today) && t.Status != TaskClosed {
			r.OverdueOpen++
		}
	}

	if r.TotalAssigned == 0 {
		r.Level = LevelInsufficientData
		return r
	}

	completionRate := float64(r.Completed) / float64(r.TotalAssigned)
	onTimeRate := 0.0
	if r.Completed > 0 {
		onTimeRate = float64(r.OnTime) / float64(r.Completed)
	}
	overdueRate := float64(r.OverdueOpen) / float64(r.TotalAssigned)

	raw := 60*completionRate + 40*onTimeRate - 20*overdueRate
	raw = math.Min(100, math.Max(0, raw))
	score := int(math.Round(raw))
	r.Score = &score

	switch {
	case score >= 80:
		r.Level = LevelExcellent
	case score >= 50:
		r.Level = LevelGood
	default:
		r.Level = LevelNeedsImprovement
	}
	return r
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
