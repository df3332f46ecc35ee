// Package services holds the workflows around the aggregation engine:
// the recurrence due predicate and the processor that materializes
// transactions from recurring templates.
package services

import (
	"fmt"
	"time"

	"pacer/internal/core"
)

// DuenessChecker is the strategy interface for deciding whether a recurring
// template is due for another materialization. One implementation per
// frequency.
type DuenessChecker interface {
	// IsDue reports whether a new instance is due at now, given when the
	// template was last materialized. A zero lastProcessed means never.
	IsDue(lastProcessed, now time.Time) bool
}

// DailyChecker implements DuenessChecker for daily templates.
type DailyChecker struct{}

// IsDue compares the calendar day-of-month only, not elapsed time. The
// same day-of-month in a later month reads as "not due": this matches the
// shipped behavior and stays until product signs off on a change.
func (DailyChecker) IsDue(lastProcessed, now time.Time) bool {
	if lastProcessed.IsZero() {
		return true
	}
	return lastProcessed.Day() != now.Day()
}

// WeeklyChecker implements DuenessChecker for weekly templates.
type WeeklyChecker struct{}

// IsDue returns true once 7 or more whole days have passed.
func (WeeklyChecker) IsDue(lastProcessed, now time.Time) bool {
	if lastProcessed.IsZero() {
		return true
	}
	daysSince := int(now.Sub(lastProcessed).Hours() / 24)
	return daysSince >= 7
}

// MonthlyChecker implements DuenessChecker for monthly templates.
type MonthlyChecker struct{}

// IsDue returns true when the month or the year has changed.
func (MonthlyChecker) IsDue(lastProcessed, now time.Time) bool {
	if lastProcessed.IsZero() {
		return true
	}
	return lastProcessed.Month() != now.Month() || lastProcessed.Year() != now.Year()
}

// YearlyChecker implements DuenessChecker for yearly templates.
type YearlyChecker struct{}

// IsDue returns true when the year has changed.
func (YearlyChecker) IsDue(lastProcessed, now time.Time) bool {
	if lastProcessed.IsZero() {
		return true
	}
	return lastProcessed.Year() != now.Year()
}

// duenessStrategies maps frequencies to their checkers.
var duenessStrategies = map[core.Frequency]DuenessChecker{
	core.Daily:   DailyChecker{},
	core.Weekly:  WeeklyChecker{},
	core.Monthly: MonthlyChecker{},
	core.Yearly:  YearlyChecker{},
}

// GetDuenessChecker returns the checker for a frequency, or an error for
// an unknown one.
func GetDuenessChecker(frequency core.Frequency) (DuenessChecker, error) {
	checker, ok := duenessStrategies[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown frequency: %s", frequency)
	}
	return checker, nil
}

// RegisterDuenessChecker registers a checker for a custom frequency.
func RegisterDuenessChecker(frequency core.Frequency, checker DuenessChecker) {
	duenessStrategies[frequency] = checker
}

// ShouldProcessRecurring reports whether a new instance of the template is
// due at now. A template that has never been materialized is always due.
// Unrecognized frequencies are never due; the predicate is total and does
// not mutate the template.
func ShouldProcessRecurring(rec core.RecurringTransaction, now time.Time) bool {
	checker, err := GetDuenessChecker(rec.Frequency)
	if err != nil {
		return false
	}
	return checker.IsDue(rec.LastProcessed, now)
}
