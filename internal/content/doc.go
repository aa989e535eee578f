// Package content holds the text helpers the page templates call: markdown
// to sanitized HTML, reading time, video duration and view formatting.
package content
