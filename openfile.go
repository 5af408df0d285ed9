package vsfs

import (
	"fmt"
	"os"

	"github.com/aligator/vsfs/checkpoint"
)

// Descriptor identifies an open file. It is the slot in the open-file table.
type Descriptor int

// Mode is the access mode of a descriptor. It never changes while the
// descriptor is open.
type Mode uint8

const (
	ModeRead Mode = iota
	ModeAppend
)

func (m Mode) String() string {
	switch m {
	case ModeRead:
		return "read"
	case ModeAppend:
		return "append"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// openFile is one slot of the open-file table. An empty name marks a free slot.
type openFile struct {
	name   [MaxFilenameLength]byte
	mode   Mode
	cursor int64
}

func (f *openFile) inUse() bool {
	return f.name[0] != 0
}

// descriptor resolves fd to its open-file slot and the directory slot of the file.
func (v *Volume) descriptor(fd Descriptor) (*openFile, int, error) {
	if fd < 0 || int(fd) >= len(v.openFiles) || !v.openFiles[fd].inUse() {
		return nil, -1, checkpoint.Wrap(fmt.Errorf("descriptor %d", fd), ErrInvalidDescriptor)
	}

	file := &v.openFiles[fd]
	slot := v.lookup(file.name)
	if slot < 0 {
		return nil, -1, checkpoint.Wrap(os.ErrNotExist, ErrNotFound)
	}
	return file, slot, nil
}

// Open claims the first free descriptor for the file called name.
// The cursor starts at 0.
func (v *Volume) Open(name string, mode Mode) (Descriptor, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	if err := v.checkMounted(); err != nil {
		return -1, err
	}
	if mode != ModeRead && mode != ModeAppend {
		return -1, checkpoint.Wrap(fmt.Errorf("mode %v", mode), ErrInvalidMode)
	}

	encoded := encodeName(name)
	if v.lookup(encoded) < 0 {
		return -1, checkpoint.Wrap(os.ErrNotExist, ErrNotFound)
	}

	for i := range v.openFiles {
		if !v.openFiles[i].inUse() {
			v.openFiles[i] = openFile{
				name: encoded,
				mode: mode,
			}
			return Descriptor(i), nil
		}
	}
	return -1, checkpoint.From(ErrNoFreeDescriptor)
}

// Close releases fd.
func (v *Volume) Close(fd Descriptor) error {
	v.lock.Lock()
	defer v.lock.Unlock()

	if err := v.checkMounted(); err != nil {
		return err
	}
	if fd < 0 || int(fd) >= len(v.openFiles) || !v.openFiles[fd].inUse() {
		return checkpoint.Wrap(fmt.Errorf("descriptor %d", fd), ErrInvalidDescriptor)
	}

	v.openFiles[fd] = openFile{}
	return nil
}

// Size returns the size in bytes of the file opened as fd.
func (v *Volume) Size(fd Descriptor) (int64, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	if err := v.checkMounted(); err != nil {
		return 0, err
	}

	_, slot, err := v.descriptor(fd)
	if err != nil {
		return 0, err
	}
	return int64(v.dir[slot].Size), nil
}
