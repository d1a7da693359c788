// Package pipeline sequences one replay save through the full flow: locate
// the newest capture, detect the active context, rename, upload with retry,
// record history, and notify. The driver owns no policy of its own; it wires
// the stages together and translates their failures into notifications.
package pipeline
