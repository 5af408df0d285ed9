package vsfs

import (
	"fmt"
	"io"

	"github.com/aligator/vsfs/checkpoint"
)

// BlockDevice is the random access storage a volume lives on.
// afero.File and *os.File both satisfy it.
// Generated mock using mockgen:
//  mockgen -source=blockstore.go -destination=blockstore_mock.go -package vsfs
type BlockDevice interface {
	ReadAt(p []byte, off int64) (n int, err error)
	WriteAt(p []byte, off int64) (n int, err error)
	Sync() error
	Close() error
}

// blockStore transfers whole blocks between a BlockDevice and caller
// supplied buffers. It does no caching.
type blockStore struct {
	dev        BlockDevice
	blockCount int32
}

func (s *blockStore) checkIndex(index BlockIndex) error {
	if index < 0 || int32(index) >= s.blockCount {
		return checkpoint.Wrap(fmt.Errorf("block %d out of range [0, %d)", index, s.blockCount), ErrIO)
	}
	return nil
}

// readBlock fills buf, which must be exactly one block long, with block index.
func (s *blockStore) readBlock(index BlockIndex, buf []byte) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}

	n, err := s.dev.ReadAt(buf[:BlockSize], int64(index)*BlockSize)
	// A ReaderAt may report io.EOF together with a complete last block.
	if n == BlockSize {
		return nil
	}
	// checkpoint never wraps EOF errors, so they are replaced.
	if err == nil || err == io.EOF || err == io.ErrUnexpectedEOF {
		err = fmt.Errorf("short read of block %d: %d of %d bytes (%v)", index, n, BlockSize, err)
	}
	return checkpoint.Wrap(err, ErrIO)
}

// writeBlock stores buf, which must be exactly one block long, as block index.
func (s *blockStore) writeBlock(index BlockIndex, buf []byte) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}

	n, err := s.dev.WriteAt(buf[:BlockSize], int64(index)*BlockSize)
	if err == nil && n != BlockSize {
		err = fmt.Errorf("short write of block %d: %d of %d bytes", index, n, BlockSize)
	}
	return checkpoint.Wrap(err, ErrIO)
}

// readRegion reads count contiguous blocks starting at first.
func (s *blockStore) readRegion(first BlockIndex, count int32) ([]byte, error) {
	raw := make([]byte, int(count)*BlockSize)
	for i := int32(0); i < count; i++ {
		if err := s.readBlock(first+BlockIndex(i), raw[int(i)*BlockSize:]); err != nil {
			return nil, err
		}
	}
	return raw, nil
}

// writeRegion writes raw, a multiple of the block size, to the blocks starting at first.
func (s *blockStore) writeRegion(first BlockIndex, raw []byte) error {
	for i := 0; i*BlockSize < len(raw); i++ {
		if err := s.writeBlock(first+BlockIndex(i), raw[i*BlockSize:]); err != nil {
			return err
		}
	}
	return nil
}
