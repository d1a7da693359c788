// Package watcher runs the pipeline automatically whenever the recorder
// drops a new capture into the replay directory. Filesystem events are
// debounced until the file size settles, and a lock file keeps the watch
// single-instance.
package watcher
