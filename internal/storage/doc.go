// Package storage provides file-based persistence for scraped FIX dictionaries.
//
// Each version's mapping is written to its own file, fix_{version}.json (or
// .yaml), inside an output directory that must already exist. Files are
// overwritten unconditionally. Tag keys are written as text and parsed back
// into integers on Load.
package storage
