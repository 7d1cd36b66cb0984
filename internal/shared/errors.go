package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Device errors
	ErrMountFailed   = fmt.Errorf("mount failed")
	ErrUnmountFailed = fmt.Errorf("unmount failed")
	ErrLocked        = fmt.Errorf("another sync is already running")

	// Synchronizer errors
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrInvalidPlaylist  = fmt.Errorf("invalid playlist")
	ErrSourceNotFound   = fmt.Errorf("source directory not found")
	ErrSyncIncomplete   = fmt.Errorf("synchronization incomplete")

	// Persistence errors
	ErrDatabaseDisabled = fmt.Errorf("database not configured")
	ErrRecordNotFound   = fmt.Errorf("record not found")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
