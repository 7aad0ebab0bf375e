// Package scheduler builds a weekly appliance usage plan in three tiers.
//
// Priority usage covers a fixed hour window on every weekday. Scheduled usage
// picks, per appliance and requested day, the contiguous block of hours with
// the lowest consumption. Additional usage fills what is left of the budget
// with the lowest-consumption hours first. The tiers always run in that
// order because each committed cost narrows the budget of the next.
//
// The package performs no I/O: records are supplied in memory and lookups go
// through a consumption.Index owned by the Optimizer.
package scheduler
