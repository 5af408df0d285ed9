package vsfs

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/aligator/vsfs/checkpoint"
	"github.com/chzyer/logex"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Volume is a mounted vsfs volume. It owns the in-memory copies of the
// superblock, the FAT and the directory, and the open-file table.
// All methods are serialized by one lock.
type Volume struct {
	lock sync.Mutex

	// store is nil once the volume is unmounted.
	store     *blockStore
	sb        Superblock
	fat       allocator
	dir       []DirectoryEntry
	openFiles [MaxOpenFiles]openFile

	now func() time.Time
}

// Format creates or truncates the file at path on fs to 2^sizeExponent bytes
// and writes an empty volume to it.
func Format(fs afero.Fs, path string, sizeExponent uint) error {
	if sizeExponent < MinSizeExponent || sizeExponent > MaxSizeExponent {
		return checkpoint.Wrap(fmt.Errorf("size exponent %d not in [%d, %d]", sizeExponent, MinSizeExponent, MaxSizeExponent), ErrInvalidVolumeSize)
	}
	size := int64(1) << sizeExponent

	f, err := fs.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return checkpoint.Wrap(err, ErrIO)
	}

	if err := f.Truncate(size); err != nil {
		f.Close()
		return checkpoint.Wrap(err, ErrIO)
	}

	if err := FormatDevice(f, int32(size/BlockSize)); err != nil {
		f.Close()
		return err
	}

	return checkpoint.Wrap(f.Close(), ErrIO)
}

// FormatDevice writes an empty volume of blockCount blocks to dev.
// The device must already be large enough; it is not closed.
func FormatDevice(dev BlockDevice, blockCount int32) error {
	sb := newSuperblock(blockCount)
	if blockCount <= 0 || sb.DataBlockCount() <= 0 {
		return checkpoint.Wrap(fmt.Errorf("%d blocks leave no room for data", blockCount), ErrInvalidVolumeSize)
	}

	id := uuid.New()
	copy(sb.VolumeID[:], id[:])

	dir := make([]DirectoryEntry, sb.DirectoryEntryCount)
	for i := range dir {
		dir[i].reset()
	}

	store := &blockStore{dev: dev, blockCount: sb.BlockCount}
	if err := writeMetadata(store, &sb, newFAT(&sb), dir); err != nil {
		return err
	}
	if err := dev.Sync(); err != nil {
		return checkpoint.Wrap(err, ErrIO)
	}

	logex.Debugf("formatted volume %s: %d blocks, %d reserved", id, sb.BlockCount, sb.ReservedBlockCount)
	return nil
}

// Mount opens the volume stored in the file at path on fs.
func Mount(fs afero.Fs, path string) (*Volume, error) {
	return mountFile(fs, path, true)
}

// MountSkipChecks opens the volume just like Mount but trusts the superblock
// without checking its magic and geometry.
// Only counts which would make the volume unusable are still rejected.
func MountSkipChecks(fs afero.Fs, path string) (*Volume, error) {
	return mountFile(fs, path, false)
}

// MountDevice opens the volume stored on dev. Unmount closes dev.
func MountDevice(dev BlockDevice) (*Volume, error) {
	return mount(dev, true)
}

func mountFile(fs afero.Fs, path string, check bool) (*Volume, error) {
	f, err := fs.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrIO)
	}

	v, err := mount(f, check)
	if err != nil {
		f.Close()
		return nil, err
	}
	return v, nil
}

func mount(dev BlockDevice, check bool) (*Volume, error) {
	v := &Volume{
		store: &blockStore{dev: dev, blockCount: 1},
		now:   time.Now,
	}

	raw := make([]byte, BlockSize)
	if err := v.store.readBlock(0, raw); err != nil {
		return nil, err
	}
	if err := unmarshalRegion(raw, &v.sb); err != nil {
		return nil, checkpoint.Wrap(err, ErrIO)
	}

	if err := checkStructure(&v.sb); err != nil {
		return nil, err
	}
	if check {
		if err := checkGeometry(&v.sb); err != nil {
			return nil, err
		}
	}
	v.store.blockCount = v.sb.BlockCount

	fatRaw, err := v.store.readRegion(v.sb.FATStart(), v.sb.FATBlockCount)
	if err != nil {
		return nil, err
	}
	entries := make([]BlockIndex, v.sb.FATEntryCount)
	if err := unmarshalRegion(fatRaw, entries); err != nil {
		return nil, checkpoint.Wrap(err, ErrIO)
	}
	v.fat = allocator{sb: &v.sb, entries: entries}

	dirRaw, err := v.store.readRegion(v.sb.DirectoryStart(), v.sb.DirectoryBlockCount)
	if err != nil {
		return nil, err
	}
	v.dir = make([]DirectoryEntry, v.sb.DirectoryEntryCount)
	if err := unmarshalRegion(dirRaw, v.dir); err != nil {
		return nil, checkpoint.Wrap(err, ErrIO)
	}

	logex.Debugf("mounted volume %s: %d of %d blocks free", uuid.UUID(v.sb.VolumeID), v.sb.FreeBlockCount, v.sb.BlockCount)
	return v, nil
}

// checkStructure rejects counts the volume can not work with at all.
func checkStructure(sb *Superblock) error {
	if sb.BlockCount <= 0 || sb.FATEntryCount != sb.BlockCount ||
		sb.FATBlockCount < 0 || sb.DirectoryEntryCount < 0 || sb.DirectoryBlockCount < 0 ||
		int64(sb.FATBlockCount)+int64(sb.DirectoryBlockCount) >= int64(sb.BlockCount) {
		return checkpoint.Wrap(fmt.Errorf("inconsistent block counts in %+v", *sb), ErrInvalidVolume)
	}
	return nil
}

// checkGeometry compares the superblock with the layout Format would have
// written for the same block count.
func checkGeometry(sb *Superblock) error {
	if sb.Magic != magic {
		return checkpoint.Wrap(fmt.Errorf("magic %q", sb.Magic[:]), ErrInvalidVolume)
	}
	if sb.BlockSize != BlockSize {
		return checkpoint.Wrap(fmt.Errorf("block size %d", sb.BlockSize), ErrInvalidVolume)
	}

	want := newSuperblock(sb.BlockCount)
	if sb.FATBlockCount != want.FATBlockCount ||
		sb.DirectoryEntryCount != want.DirectoryEntryCount ||
		sb.DirectoryBlockCount != want.DirectoryBlockCount ||
		sb.ReservedBlockCount != want.ReservedBlockCount {
		return checkpoint.Wrap(fmt.Errorf("unexpected layout %+v", *sb), ErrInvalidVolume)
	}

	if sb.FreeBlockCount < 0 || sb.FreeBlockCount > sb.DataBlockCount() {
		return checkpoint.Wrap(fmt.Errorf("free block count %d", sb.FreeBlockCount), ErrInvalidVolume)
	}
	if sb.FirstFreeBlock != EndOfChain && (sb.FirstFreeBlock < sb.FirstDataBlock() || int32(sb.FirstFreeBlock) >= sb.BlockCount) {
		return checkpoint.Wrap(fmt.Errorf("first free block %d", sb.FirstFreeBlock), ErrInvalidVolume)
	}
	return nil
}

// writeMetadata stores the superblock, the FAT and the directory in that order.
// A failure leaves the regions written so far on disk.
func writeMetadata(store *blockStore, sb *Superblock, fat []BlockIndex, dir []DirectoryEntry) error {
	raw, err := marshalRegion(sb, 1)
	if err != nil {
		return checkpoint.Wrap(err, ErrIO)
	}
	if err := store.writeBlock(0, raw); err != nil {
		return err
	}

	raw, err = marshalRegion(fat, sb.FATBlockCount)
	if err != nil {
		return checkpoint.Wrap(err, ErrIO)
	}
	if err := store.writeRegion(sb.FATStart(), raw); err != nil {
		return err
	}

	raw, err = marshalRegion(dir, sb.DirectoryBlockCount)
	if err != nil {
		return checkpoint.Wrap(err, ErrIO)
	}
	return store.writeRegion(sb.DirectoryStart(), raw)
}

func (v *Volume) checkMounted() error {
	if v.store == nil {
		return checkpoint.From(ErrNotMounted)
	}
	return nil
}

func (v *Volume) flush() error {
	if err := writeMetadata(v.store, &v.sb, v.fat.entries, v.dir); err != nil {
		return err
	}
	return checkpoint.Wrap(v.store.dev.Sync(), ErrIO)
}

// Sync writes the metadata back to the device without unmounting.
func (v *Volume) Sync() error {
	v.lock.Lock()
	defer v.lock.Unlock()

	if err := v.checkMounted(); err != nil {
		return err
	}
	return v.flush()
}

// Unmount writes the metadata back, closes the device and invalidates all
// descriptors. The device is closed even if writing fails.
func (v *Volume) Unmount() error {
	v.lock.Lock()
	defer v.lock.Unlock()

	if err := v.checkMounted(); err != nil {
		return err
	}

	err := v.flush()
	if closeErr := v.store.dev.Close(); err == nil {
		err = checkpoint.Wrap(closeErr, ErrIO)
	}

	logex.Debugf("unmounted volume %s", uuid.UUID(v.sb.VolumeID))

	v.store = nil
	v.fat.entries = nil
	v.dir = nil
	v.openFiles = [MaxOpenFiles]openFile{}
	return err
}

// Superblock returns a copy of the current superblock.
func (v *Volume) Superblock() Superblock {
	v.lock.Lock()
	defer v.lock.Unlock()

	return v.sb
}

// VolumeID is the identifier assigned to the volume by Format.
func (v *Volume) VolumeID() uuid.UUID {
	v.lock.Lock()
	defer v.lock.Unlock()

	return uuid.UUID(v.sb.VolumeID)
}
