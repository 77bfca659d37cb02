// Package events implements the publish/subscribe layer between the sync
// engine and its consumers.
//
// Listeners are registered per (event [Kind], subscriber [Group]) pair. The
// two groups mirror the two consumer classes of the application: the live
// panel and the note-writing path. [Hub.RunAllSuspended] detaches a whole
// group for the duration of a bulk operation so that writing note files can
// never re-trigger the note-sync listeners that caused the write. Emission is
// synchronous and a failing listener aborts the remainder of the batch, which
// keeps failure handling in the emitter's hands rather than hiding it.
package events
