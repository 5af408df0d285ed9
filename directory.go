package vsfs

import (
	"os"
	"strings"

	"github.com/aligator/vsfs/checkpoint"
)

// validateName rejects names which can not be stored or would be ambiguous in
// the flat namespace.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\x00") {
		return checkpoint.Wrap(os.ErrInvalid, ErrInvalidName)
	}
	return nil
}

// lookup returns the slot of the live entry called name or -1.
func (v *Volume) lookup(name [MaxFilenameLength]byte) int {
	for i := range v.dir {
		if !v.dir[i].IsEmpty() && v.dir[i].Name == name {
			return i
		}
	}
	return -1
}

// updateFreeSlot moves Superblock.FirstFreeDirectoryEntry to the lowest
// empty slot, or to the capacity if the directory is full.
func (v *Volume) updateFreeSlot() {
	for i := range v.dir {
		if v.dir[i].IsEmpty() {
			v.sb.FirstFreeDirectoryEntry = int32(i)
			return
		}
	}
	v.sb.FirstFreeDirectoryEntry = int32(len(v.dir))
}

// isOpen reports whether any descriptor references name.
func (v *Volume) isOpen(name [MaxFilenameLength]byte) bool {
	for i := range v.openFiles {
		if v.openFiles[i].inUse() && v.openFiles[i].name == name {
			return true
		}
	}
	return false
}

// Create adds an empty file called name to the directory.
// Names longer than MaxFilenameLength bytes are truncated.
func (v *Volume) Create(name string) error {
	v.lock.Lock()
	defer v.lock.Unlock()

	if err := v.checkMounted(); err != nil {
		return err
	}
	if err := validateName(name); err != nil {
		return err
	}

	encoded := encodeName(name)
	if v.lookup(encoded) >= 0 {
		return checkpoint.Wrap(os.ErrExist, ErrAlreadyExists)
	}

	slot := int(v.sb.FirstFreeDirectoryEntry)
	if slot < 0 || slot >= len(v.dir) || !v.dir[slot].IsEmpty() {
		return checkpoint.From(ErrNoSpace)
	}

	date, clock := stamp(v.now())
	v.dir[slot] = DirectoryEntry{
		Name:       encoded,
		Size:       0,
		FirstBlock: EndOfChain,
		CreateTime: clock,
		CreateDate: date,
		WriteTime:  clock,
		WriteDate:  date,
	}
	v.updateFreeSlot()
	return nil
}

// Delete removes the file called name and returns its blocks to the free list.
// It fails with ErrFileOpen as long as any descriptor references the file.
func (v *Volume) Delete(name string) error {
	v.lock.Lock()
	defer v.lock.Unlock()

	if err := v.checkMounted(); err != nil {
		return err
	}

	encoded := encodeName(name)
	slot := v.lookup(encoded)
	if slot < 0 {
		return checkpoint.Wrap(os.ErrNotExist, ErrNotFound)
	}
	if v.isOpen(encoded) {
		return checkpoint.From(ErrFileOpen)
	}

	if err := v.fat.freeChain(v.dir[slot].FirstBlock); err != nil {
		return err
	}

	v.dir[slot].reset()
	if int32(slot) < v.sb.FirstFreeDirectoryEntry {
		v.sb.FirstFreeDirectoryEntry = int32(slot)
	}
	return nil
}

// Stat describes the file called name.
func (v *Volume) Stat(name string) (os.FileInfo, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	if err := v.checkMounted(); err != nil {
		return nil, err
	}

	slot := v.lookup(encodeName(name))
	if slot < 0 {
		return nil, checkpoint.Wrap(os.ErrNotExist, ErrNotFound)
	}
	return v.dir[slot].FileInfo(), nil
}

// Files lists all files in directory slot order.
func (v *Volume) Files() ([]os.FileInfo, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	if err := v.checkMounted(); err != nil {
		return nil, err
	}

	var result []os.FileInfo
	for i := range v.dir {
		if !v.dir[i].IsEmpty() {
			result = append(result, v.dir[i].FileInfo())
		}
	}
	return result, nil
}
