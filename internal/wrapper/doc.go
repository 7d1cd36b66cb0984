// Package wrapper runs one mount, synchronize, unmount cycle against the player.
//
// The sequence is strictly ordered and blocking:
//
//  1. Mount the mount point. On failure, stop and exit with the mount tool's status.
//  2. Invoke the synchronizer once with its fixed flags followed by the forwarded arguments.
//  3. Print a status line and unmount exactly once, whatever the synchronizer did.
//
// The exit status is the unmount's unless [Config.Strict] promotes a failed synchronizer status.
package wrapper
