// Package history persists completed uploads in a SQLite database so past
// links remain reachable after the desktop notification is gone.
package history
