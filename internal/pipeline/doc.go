// Package pipeline executes the steps of one environment's build.
//
// A build goes through aggregation, rendering and the output manifest, in
// that order. Each stage is a Step that reads and extends the model.Build
// produced so far. Steps registered with AddFinally, such as recording the
// build in the history database, run whether or not the build succeeded.
package pipeline
