// Package main provides the entry point for the crewcheck CLI.
//
// Crewcheck is a data quality auditor for scraped sports officials
// datasets. It runs a battery of independent checks against a results
// file and reports names, crews, and matchups that look fabricated.
//
// Usage:
//
//	crewcheck audit results.json
//	crewcheck compare results.json
//
// See --help for all available options.
package main

// main is the entry point for crewcheck.
func main() {
	Execute()
}
