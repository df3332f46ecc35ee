package analytics

import (
	"math"
	"time"

	"pacer/internal/core"
)

// GoalProgress is the derived state of a savings goal at a point in time.
type GoalProgress struct {
	Percent       float64
	Remaining     core.Money
	DaysRemaining int // negative once the deadline has passed
}

// ProgressForGoal computes percent complete, amount remaining and days to
// deadline. A non-positive target reports 0% rather than dividing by zero.
func ProgressForGoal(g core.SavingsGoal, now time.Time) GoalProgress {
	var pct float64
	if g.Target.Cents > 0 {
		pct = float64(g.Current.Cents) / float64(g.Target.Cents) * 100
	}
	days := int(math.Ceil(g.Deadline.Sub(now).Hours() / 24))
	return GoalProgress{
		Percent:       pct,
		Remaining:     core.Money{Cents: g.Target.Cents - g.Current.Cents},
		DaysRemaining: days,
	}
}
