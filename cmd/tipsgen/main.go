// Package main provides the entry point for the tipsgen CLI.
//
// tipsgen builds the TherapyTips static site from the content API and
// uploads the result over FTP.
//
// Usage:
//
//	tipsgen build --env=prod
//	tipsgen upload prod
//
// See --help for all available options.
package main

// main is the entry point for tipsgen.
func main() {
	Execute()
}
