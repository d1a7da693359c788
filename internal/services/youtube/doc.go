// Package youtube implements the video insert call against the YouTube Data
// API's resumable upload protocol: a session initiation POST carrying the
// snippet/status resource, then a media PUT to the returned session URL.
// API failures are surfaced as *StatusError so callers can classify them by
// HTTP status code.
package youtube
