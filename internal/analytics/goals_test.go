package analytics

import (
	"testing"
	"time"

	"pacer/internal/core"
)

func TestProgressForGoal(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		goal        core.SavingsGoal
		wantPercent float64
		wantRemain  int64
		wantDays    int
	}{
		{
			name: "halfway there",
			goal: core.SavingsGoal{
				Target:   core.Money{Cents: 10000},
				Current:  core.Money{Cents: 5000},
				Deadline: core.NewDate(2024, 6, 11),
			},
			wantPercent: 50,
			wantRemain:  5000,
			wantDays:    10,
		},
		{
			name: "zero target reports zero percent",
			goal: core.SavingsGoal{
				Target:   core.Money{Cents: 0},
				Current:  core.Money{Cents: 500},
				Deadline: core.NewDate(2024, 7, 1),
			},
			wantPercent: 0,
			wantRemain:  -500,
			wantDays:    30,
		},
		{
			name: "past deadline counts negative days",
			goal: core.SavingsGoal{
				Target:   core.Money{Cents: 1000},
				Current:  core.Money{Cents: 100},
				Deadline: core.NewDate(2024, 5, 30),
			},
			wantPercent: 10,
			wantRemain:  900,
			wantDays:    -2,
		},
		{
			name: "overfunded goal exceeds 100 percent",
			goal: core.SavingsGoal{
				Target:   core.Money{Cents: 1000},
				Current:  core.Money{Cents: 1500},
				Deadline: core.NewDate(2024, 6, 2),
			},
			wantPercent: 150,
			wantRemain:  -500,
			wantDays:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProgressForGoal(tt.goal, now)
			if got.Percent != tt.wantPercent {
				t.Errorf("Percent = %f, want %f", got.Percent, tt.wantPercent)
			}
			if got.Remaining.Cents != tt.wantRemain {
				t.Errorf("Remaining = %d, want %d", got.Remaining.Cents, tt.wantRemain)
			}
			if got.DaysRemaining != tt.wantDays {
				t.Errorf("DaysRemaining = %d, want %d", got.DaysRemaining, tt.wantDays)
			}
		})
	}
}
