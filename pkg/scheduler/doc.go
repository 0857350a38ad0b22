// Package scheduler re-renders a view into a mount point whenever the
// state it reads changes.
//
// A Scheduler owns the tree from the previous pass. The first pass clears
// the mount point and materializes the view; every later pass patches the
// live document against the previous tree. Mount registers the pass as a
// tracked computation, so each state write the view depends on triggers a
// full pass before the write returns. Writes are not batched: N writes in
// one handler mean N passes.
//
// # Event Loop
//
// The runtime, the stores and the document belong to one goroutine. Work
// started elsewhere, such as a fetch, hands its result back with Dispatch;
// Run executes dispatched functions one at a time:
//
//	s := scheduler.New(doc.GetElementByID("app"), view)
//	s.Mount()
//	go func() {
//	    notes, err := src.ListNotes(ctx)
//	    s.Dispatch(func() { state.Set("notes", notes) })
//	}()
//	err := s.Run(ctx)
//
// Results that arrive after the user has moved on are applied anyway.
package scheduler
