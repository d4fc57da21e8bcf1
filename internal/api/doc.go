// Package api serves the daemon's observation surface over HTTP. It is
// read-only: control flows through signals and the Unix socket, while this
// server answers status queries and streams lifecycle events to WebSocket
// subscribers such as status bars and widgets.
package api
