// Package winquery snapshots the focused window's title and process name via
// xdotool and /proc. Probes are bounded by short timeouts and every failure
// mode (tool missing, timeout, non-zero exit, unreadable /proc entry)
// degrades to an empty field rather than an error.
package winquery
