// Package preflight inspects host resources before a validation batch.
//
// Every check is advisory. The package reports:
//   - Worker count against available CPUs
//   - System memory utilization (warning above 90%)
//   - Disk utilization of the log directory's filesystem (failure above 85%)
//   - File descriptor limit (warning below 1024)
//
// Nothing here blocks or cancels a run; callers decide whether to proceed:
//
//	checker := preflight.New(preflight.WithLogger(logger))
//	results := checker.RunAll(ctx, workers, "/var/log/app")
//	if checker.SummaryStatus(results) == preflight.SummaryDegraded {
//	    // decide
//	}
package preflight
