// Package notify surfaces pipeline results on the desktop. Plain
// notifications go through notify-send; the post-upload notification offers
// Copy Link and Open in Browser actions and waits a bounded time for the
// user to pick one. Clipboard writes try wl-copy then xclip, and browser
// opens are detached through xdg-open. Everything is best effort so a bare
// headless host never breaks an upload.
package notify
