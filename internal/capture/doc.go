// Package capture locates and renames replay buffer files. Lookup scans a
// single directory level for recognized video extensions; renaming embeds
// the detected label and a timestamp, never overwrites an existing file,
// and on failure leaves the original path usable.
package capture
