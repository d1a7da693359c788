// Package detect turns raw active-window metadata into a human-readable
// clip label. Matching runs in two passes over an ordered substring rule
// table (process name first, then title), followed by title-cleanup
// heuristics gated by a denylist of generic application names. Detection
// never fails: when nothing usable remains, the configured default label is
// returned.
package detect
