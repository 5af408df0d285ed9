// File model contains the structs which match the on-disk structures of the volume.

package vsfs

import (
	"bytes"
	"encoding/binary"
)

const (
	// BlockSize is the size of every block of the volume in bytes.
	BlockSize = 512

	// DirectoryCapacity is the fixed number of directory entries.
	DirectoryCapacity = 128

	// MaxOpenFiles is the size of the open-file table.
	MaxOpenFiles = 16

	// MaxFilenameLength is the number of filename bytes stored in a directory
	// entry. Longer names are silently truncated.
	MaxFilenameLength = 32

	// MinSizeExponent and MaxSizeExponent bound the volume size 2^m passed to Format.
	MinSizeExponent = 15
	MaxSizeExponent = 30

	fatEntrySize       = 4
	directoryEntrySize = 128
)

var magic = [4]byte{'V', 'S', 'F', 'S'}

// Superblock is stored in block 0 and describes the whole volume.
type Superblock struct {
	Magic                   [4]byte
	BlockSize               int32
	BlockCount              int32
	FATEntryCount           int32
	FATBlockCount           int32
	DirectoryEntryCount     int32
	DirectoryBlockCount     int32
	FreeBlockCount          int32
	ReservedBlockCount      int32
	FirstFreeBlock          BlockIndex
	FirstFreeDirectoryEntry int32
	VolumeID                [16]byte
}

// newSuperblock computes the geometry of a fresh volume with blockCount blocks.
func newSuperblock(blockCount int32) Superblock {
	fatBlocks := divCeil(blockCount*fatEntrySize, BlockSize)
	dirBlocks := divCeil(DirectoryCapacity*directoryEntrySize, BlockSize)
	reserved := 1 + fatBlocks + dirBlocks

	sb := Superblock{
		Magic:                   magic,
		BlockSize:               BlockSize,
		BlockCount:              blockCount,
		FATEntryCount:           blockCount,
		FATBlockCount:           fatBlocks,
		DirectoryEntryCount:     DirectoryCapacity,
		DirectoryBlockCount:     dirBlocks,
		ReservedBlockCount:      reserved,
		FreeBlockCount:          blockCount - reserved,
		FirstFreeBlock:          BlockIndex(reserved),
		FirstFreeDirectoryEntry: 0,
	}
	if sb.FreeBlockCount <= 0 {
		sb.FreeBlockCount = 0
		sb.FirstFreeBlock = EndOfChain
	}
	return sb
}

// FATStart is the first block of the FAT region.
func (sb *Superblock) FATStart() BlockIndex {
	return 1
}

// DirectoryStart is the first block of the directory region.
func (sb *Superblock) DirectoryStart() BlockIndex {
	return sb.FATStart() + BlockIndex(sb.FATBlockCount)
}

// FirstDataBlock is the first block which may be allocated to files.
func (sb *Superblock) FirstDataBlock() BlockIndex {
	return BlockIndex(sb.ReservedBlockCount)
}

// DataBlockCount is the number of blocks available to files in total.
func (sb *Superblock) DataBlockCount() int32 {
	return sb.BlockCount - sb.ReservedBlockCount
}

// DirectoryEntry is one slot of the flat directory. An empty name marks a
// free slot.
type DirectoryEntry struct {
	Name       [MaxFilenameLength]byte
	Size       int32
	FirstBlock BlockIndex
	CreateTime uint16
	CreateDate uint16
	WriteTime  uint16
	WriteDate  uint16
	Padding    [80]byte
}

// IsEmpty reports whether the slot is free.
func (e *DirectoryEntry) IsEmpty() bool {
	return e.Name[0] == 0
}

// Filename returns the stored name without its NUL padding.
func (e *DirectoryEntry) Filename() string {
	return string(bytes.TrimRight(e.Name[:], "\x00"))
}

// reset turns the entry into an empty slot.
func (e *DirectoryEntry) reset() {
	*e = DirectoryEntry{FirstBlock: EndOfChain}
}

// encodeName converts a filename into its fixed size on-disk form.
// Bytes beyond MaxFilenameLength are dropped.
func encodeName(name string) [MaxFilenameLength]byte {
	var result [MaxFilenameLength]byte
	copy(result[:], name)
	return result
}

// marshalRegion encodes data little endian and pads it to full blocks.
func marshalRegion(data interface{}, blocks int32) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, int(blocks)*BlockSize))
	if err := binary.Write(buf, binary.LittleEndian, data); err != nil {
		return nil, err
	}

	result := make([]byte, int(blocks)*BlockSize)
	copy(result, buf.Bytes())
	return result, nil
}

// unmarshalRegion decodes a little endian region into data.
func unmarshalRegion(raw []byte, data interface{}) error {
	return binary.Read(bytes.NewReader(raw), binary.LittleEndian, data)
}

func divCeil(a, b int32) int32 {
	return (a + b - 1) / b
}
