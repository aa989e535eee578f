// Package fanout runs independent fetches concurrently and joins them.
//
// Results keep the order of the tasks that produced them. The first failure
// is the one reported, and in-flight siblings are left to finish rather than
// being cancelled.
package fanout
