// Package jobs implements background job processing for the StudyCam API.
//
// The jobs package contains scheduled tasks that run independently of HTTP
// request handling.
//
// # Job Types
//
// Available background jobs:
//
//   - Reconciler: Sweeps the membership ledger against the provider's live
//     room list, deactivating members of rooms the provider no longer hosts
//
// # Lifecycle
//
// Jobs follow a Start/Stop lifecycle with an internal ticker:
//
//	reconciler := jobs.NewReconciler(rooms, members, provider, interval)
//	reconciler.Start()
//	defer reconciler.Stop()
//
// Stop blocks until the job's goroutine has exited.
//
// # Error Handling
//
// Jobs log errors and continue; a failed pass is retried on the next tick.
package jobs
