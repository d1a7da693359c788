// Package uploader drives upload attempts through a classified retry state
// machine. Each attempt's error is classified as retryable or fatal; retryable
// failures back off exponentially from a configured base, fatal ones stop the
// run immediately. The actual transfer is behind the Uploader interface so the
// machine can be tested without network access.
package uploader
