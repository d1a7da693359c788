// Package auth manages the OAuth credentials used for uploads: loading the
// desktop-app client secrets, running the one-time loopback consent flow,
// and serving tokens that persist their own refreshes back to disk.
package auth
