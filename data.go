package vsfs

import (
	"fmt"

	"github.com/aligator/vsfs/checkpoint"
)

// Read copies up to len(p) bytes of the file opened as fd into p, starting at
// the cursor of fd, and advances the cursor.
// Reaching the end of the file is no error: Read then returns 0, nil.
func (v *Volume) Read(fd Descriptor, p []byte) (int, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	if err := v.checkMounted(); err != nil {
		return 0, err
	}

	file, slot, err := v.descriptor(fd)
	if err != nil {
		return 0, err
	}
	if file.mode != ModeRead {
		return 0, checkpoint.Wrap(fmt.Errorf("descriptor %d is open for %v", fd, file.mode), ErrModeMismatch)
	}

	entry := &v.dir[slot]
	size := int64(entry.Size)
	if len(p) == 0 || file.cursor >= size {
		return 0, nil
	}

	chain, err := v.fat.chain(entry.FirstBlock)
	if err != nil {
		return 0, err
	}
	if used := (size + BlockSize - 1) / BlockSize; used > int64(len(chain)) {
		return 0, v.fat.corrupt("file of %d bytes has only %d blocks", size, len(chain))
	}

	buf := make([]byte, BlockSize)
	read := 0
	for read < len(p) && file.cursor < size {
		if err := v.store.readBlock(chain[file.cursor/BlockSize], buf); err != nil {
			return read, err
		}

		intra := file.cursor % BlockSize
		n := minInt64(int64(len(p)-read), BlockSize-intra, size-file.cursor)
		copy(p[read:], buf[intra:intra+n])
		read += int(n)
		file.cursor += n
	}

	return read, nil
}

// Append writes p to the end of the file opened as fd, growing its chain block
// by block.
// If the volume runs out of blocks the bytes written so far stay in the file
// and their count is returned together with ErrNoFreeSpace.
func (v *Volume) Append(fd Descriptor, p []byte) (int, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	if err := v.checkMounted(); err != nil {
		return 0, err
	}

	file, slot, err := v.descriptor(fd)
	if err != nil {
		return 0, err
	}
	if file.mode != ModeAppend {
		return 0, checkpoint.Wrap(fmt.Errorf("descriptor %d is open for %v", fd, file.mode), ErrModeMismatch)
	}
	if len(p) == 0 {
		return 0, nil
	}

	entry := &v.dir[slot]
	chain, err := v.fat.chain(entry.FirstBlock)
	if err != nil {
		return 0, err
	}

	pos := int64(entry.Size)
	if used := (pos + BlockSize - 1) / BlockSize; used > int64(len(chain)) {
		return 0, v.fat.corrupt("file of %d bytes has only %d blocks", pos, len(chain))
	}

	buf := make([]byte, BlockSize)
	written := 0
	for written < len(p) {
		k := int(pos / BlockSize)
		intra := pos % BlockSize

		if k == len(chain) {
			block, err := v.fat.alloc()
			if err != nil {
				return written, err
			}
			if len(chain) == 0 {
				entry.FirstBlock = block
			} else {
				v.fat.link(chain[len(chain)-1], block)
			}
			chain = append(chain, block)
		}
		block := chain[k]

		// Keep the valid bytes in front of the cursor.
		if intra > 0 {
			if err := v.store.readBlock(block, buf); err != nil {
				return written, err
			}
		} else {
			for i := range buf {
				buf[i] = 0
			}
		}

		n := copy(buf[intra:], p[written:])
		if err := v.store.writeBlock(block, buf); err != nil {
			return written, err
		}

		written += n
		pos += int64(n)
		file.cursor = pos
		if pos > int64(entry.Size) {
			entry.Size = int32(pos)
		}
		entry.WriteDate, entry.WriteTime = stamp(v.now())
	}

	return written, nil
}

func minInt64(values ...int64) int64 {
	result := values[0]
	for _, value := range values[1:] {
		if value < result {
			result = value
		}
	}
	return result
}
