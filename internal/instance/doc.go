// Package instance prevents two daemons from running against the same state
// directory. The guard couples a pid file, used by clients and liveness
// probes, with a flock that serializes acquisition so two starting daemons
// cannot both reclaim the same stale pid file.
package instance
