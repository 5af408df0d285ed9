package vsfs

import (
	"fmt"

	"github.com/aligator/vsfs/checkpoint"
)

// BlockIndex is the 0-based number of a block and, at the same time, the
// index of its FAT entry.
type BlockIndex int32

const (
	// EndOfChain terminates a file chain and the free list. It is also used
	// as "no block" for empty files.
	EndOfChain BlockIndex = -1

	// reservedBlock marks FAT entries of the metadata region.
	reservedBlock BlockIndex = -2
)

// allocator owns the FAT entries and the free-list bookkeeping of the superblock.
// Free blocks form a singly linked list threaded through their FAT entries,
// headed by Superblock.FirstFreeBlock.
type allocator struct {
	sb      *Superblock
	entries []BlockIndex
}

// newFAT builds the FAT of a freshly formatted volume: metadata blocks are
// reserved and all data blocks are chained into one free list in block order.
func newFAT(sb *Superblock) []BlockIndex {
	entries := make([]BlockIndex, sb.FATEntryCount)
	for i := range entries {
		switch {
		case int32(i) < sb.ReservedBlockCount:
			entries[i] = reservedBlock
		case i == len(entries)-1:
			entries[i] = EndOfChain
		default:
			entries[i] = BlockIndex(i + 1)
		}
	}
	return entries
}

// alloc pops the head of the free list. The returned block is terminated by
// EndOfChain.
func (a *allocator) alloc() (BlockIndex, error) {
	head := a.sb.FirstFreeBlock
	if head == EndOfChain || a.sb.FreeBlockCount <= 0 {
		return EndOfChain, checkpoint.From(ErrNoFreeSpace)
	}
	if !a.isDataBlock(head) {
		return EndOfChain, a.corrupt("free list head %d is not a data block", head)
	}

	a.sb.FirstFreeBlock = a.entries[head]
	a.entries[head] = EndOfChain
	a.sb.FreeBlockCount--
	return head, nil
}

// free pushes block onto the head of the free list.
func (a *allocator) free(block BlockIndex) {
	a.entries[block] = a.sb.FirstFreeBlock
	a.sb.FirstFreeBlock = block
	a.sb.FreeBlockCount++
}

// next returns the FAT link of block.
func (a *allocator) next(block BlockIndex) BlockIndex {
	return a.entries[block]
}

// link makes next follow block in its chain.
func (a *allocator) link(block, next BlockIndex) {
	a.entries[block] = next
}

// chain returns all blocks of the chain starting at head in order.
// A chain longer than the number of data blocks must contain a cycle and is
// rejected, as is a link out of the data region.
func (a *allocator) chain(head BlockIndex) ([]BlockIndex, error) {
	var blocks []BlockIndex
	limit := int(a.sb.DataBlockCount())
	for block := head; block != EndOfChain; block = a.entries[block] {
		if !a.isDataBlock(block) {
			return nil, a.corrupt("chain starting at %d links to block %d", head, block)
		}
		if len(blocks) >= limit {
			return nil, a.corrupt("chain starting at %d has a cycle", head)
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

// freeChain returns every block of the chain starting at head to the free list.
// The chain is validated completely before anything is freed.
func (a *allocator) freeChain(head BlockIndex) error {
	blocks, err := a.chain(head)
	if err != nil {
		return err
	}
	for _, block := range blocks {
		a.free(block)
	}
	return nil
}

func (a *allocator) isDataBlock(block BlockIndex) bool {
	return block >= a.sb.FirstDataBlock() && int32(block) < a.sb.BlockCount
}

func (a *allocator) corrupt(format string, args ...interface{}) error {
	return checkpoint.Wrap(checkpoint.Wrap(fmt.Errorf(format, args...), ErrIO), ErrCorruptChain)
}
