// Package device mounts and unmounts the player through the OS mount tools
// and guards a sync against concurrent runs with an advisory file lock.
package device
