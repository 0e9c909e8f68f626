package health

import (
	"fmt"
	"time"
)

// FreshnessChecker следит за периодической задачей по времени её последнего успешного запуска.
// До первого запуска unhealthy, при отставании больше maxAge degraded.
type FreshnessChecker struct {
	name    string
	lastRun func() time.Time
	maxAge  time.Duration
	now     func() time.Time
}

// NewFreshnessChecker создаёт проверку свежести.
func NewFreshnessChecker(name string, lastRun func() time.Time, maxAge time.Duration) *FreshnessChecker {
	return &FreshnessChecker{
		name:    name,
		lastRun: lastRun,
		maxAge:  maxAge,
		now:     time.Now,
	}
}

// Check выполняет проверку.
func (c *FreshnessChecker) Check() Check {
	check := Check{Name: c.name, Status: StatusHealthy}

	last := c.lastRun()
	if last.IsZero() {
		check.Status = StatusUnhealthy
		check.Message = "no successful run yet"
		return check
	}

	if age := c.now().Sub(last); age > c.maxAge {
		check.Status = StatusDegraded
		check.Message = fmt.Sprintf("last run %s ago exceeds %s", age.Truncate(time.Second), c.maxAge)
	}
	return check
}
