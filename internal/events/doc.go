// Package events carries the lifecycle notifications emitted while a build
// run walks the task graph: a run starting and finishing, and every task
// being started, skipped as up to date, completed or failed.
//
// Listeners are synchronous. A slow listener slows the build, so remote
// sinks (see SocketIOListener) must not block on the network.
package events
