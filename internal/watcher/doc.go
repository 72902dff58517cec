// Package watcher reports changes to individual files.
//
// Each watched file is observed through its parent directory so that
// editors which save by writing a temporary file and renaming it over the
// original are still seen. Bursts of events for the same file are
// coalesced into one Event after a quiet period.
package watcher
