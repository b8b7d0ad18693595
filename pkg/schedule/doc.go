// Package schedule provides time-based relaunching of experiment runs.
//
// This package includes:
//   - Schedule interface for defining relaunch times
//   - Every() for fixed-interval schedules
//   - Daily() for daily schedules at a specific time
//   - Cron() for cron expression-based schedules
//   - Relauncher for re-invoking a launch until nothing fails transiently
//
// A relaunch is purely time-based retry, never completion polling: the
// launcher's idempotency check makes each pass skip already-accepted jobs,
// so repeated passes converge on retrying only what failed.
package schedule
