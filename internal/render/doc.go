// Package render writes the static site of one environment.
//
// Templates are embedded in the binary and can be replaced one file at a
// time from a directory on disk. Every page executes the "layout" template
// with a PageData value.
package render
