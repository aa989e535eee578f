// Package report summarises a finished build.
//
// SimpleWriter prints a plain-text summary after each build. MarkdownWriter
// produces the same summary as a Markdown document, with a Mermaid pie chart
// of pages per content type, for the --report file. Both report the pages
// per content type, the trending list, unavailable videos and the output size.
package report
