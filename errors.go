package vsfs

import "errors"

// These errors may be returned by any volume operation. They are usually
// wrapped by a checkpoint, so compare them with errors.Is.
var (
	ErrIO                = errors.New("block transfer failed")
	ErrNotFound          = errors.New("file not found")
	ErrAlreadyExists     = errors.New("file already exists")
	ErrNoSpace           = errors.New("directory is full")
	ErrNoFreeSpace       = errors.New("no free blocks left")
	ErrInvalidDescriptor = errors.New("invalid file descriptor")
	ErrNoFreeDescriptor  = errors.New("no free file descriptor")
	ErrModeMismatch      = errors.New("file is not open in the required mode")
	ErrFileOpen          = errors.New("file is open")
)

// Errors which are not part of the core taxonomy but guard the API edges.
var (
	// ErrCorruptChain is always wrapped around ErrIO.
	ErrCorruptChain      = errors.New("corrupt block chain")
	ErrInvalidName       = errors.New("invalid filename")
	ErrInvalidMode       = errors.New("invalid open mode")
	ErrInvalidVolume     = errors.New("not a vsfs volume")
	ErrInvalidVolumeSize = errors.New("invalid volume size")
	ErrNotMounted        = errors.New("volume is not mounted")
)
