// Package deps inventories the optional host tools the pipeline shells out
// to, for status reporting.
package deps
