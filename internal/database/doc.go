// Package database persists run history in SQLite.
//
// RunDB stores one row per run with the full report as JSON, plus
// per-URL score rows so the score history of a site can be listed
// without deserializing every stored report. The modernc.org/sqlite
// driver keeps the binary CGO-free.
package database
