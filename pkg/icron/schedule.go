package icron

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/robfig/cron/v3"
)

// TriggerInfo describes the next firing of a cron expression
// relative to a reference time.
type TriggerInfo struct {
	Expression    string
	Next          time.Time
	TimeUntilNext time.Duration
}

// GetTriggerInfo parses a standard 5-field cron expression and reports
// when it will fire next after refTime.
func GetTriggerInfo(cronExpr string, refTime time.Time) (*TriggerInfo, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}

	next := schedule.Next(refTime)
	return &TriggerInfo{
		Expression:    cronExpr,
		Next:          next,
		TimeUntilNext: next.Sub(refTime),
	}, nil
}

// RandomWeekly returns a cron expression firing once a week at a
// uniformly random minute, hour and day of week.
func RandomWeekly() string {
	minute := rand.IntN(60)
	hour := rand.IntN(24)
	dayOfWeek := rand.IntN(7)

	return fmt.Sprintf("%d %d * * %d", minute, hour, dayOfWeek)
}
