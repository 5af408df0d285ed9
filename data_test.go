package vsfs

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
)

// testingData returns size deterministic pseudo random bytes.
func testingData(size int) []byte {
	data := make([]byte, size)
	rand.New(rand.NewSource(int64(size))).Read(data)
	return data
}

func TestVolume_roundTrip(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		chunks []int
		blocks int
	}{
		{name: "empty", size: 0, blocks: 0},
		{name: "single byte", size: 1, blocks: 1},
		{name: "one byte short of a block", size: BlockSize - 1, blocks: 1},
		{name: "exactly one block", size: BlockSize, blocks: 1},
		{name: "one byte into the second block", size: BlockSize + 1, blocks: 2},
		{name: "many blocks", size: 5000, blocks: 10},
		{name: "many blocks in small chunks", size: 5000, chunks: []int{1, 510, 1, 2, 1000, 7}, blocks: 10},
		{name: "chunks ending on block boundaries", size: 3 * BlockSize, chunks: []int{BlockSize, BlockSize}, blocks: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := testingVolume(t, 16)
			defer v.Unmount()
			freeBefore := v.Superblock().FreeBlockCount

			want := testingData(tt.size)
			if err := v.Create("f"); err != nil {
				t.Fatal(err)
			}
			fd, err := v.Open("f", ModeAppend)
			if err != nil {
				t.Fatal(err)
			}

			rest := want
			for _, chunk := range tt.chunks {
				if chunk > len(rest) {
					chunk = len(rest)
				}
				if n, err := v.Append(fd, rest[:chunk]); err != nil || n != chunk {
					t.Fatalf("Append() = %v, %v, want %v, nil", n, err, chunk)
				}
				rest = rest[chunk:]
			}
			if n, err := v.Append(fd, rest); err != nil || n != len(rest) {
				t.Fatalf("Append() = %v, %v, want %v, nil", n, err, len(rest))
			}
			if err := v.Close(fd); err != nil {
				t.Fatal(err)
			}

			if got := readAll(t, v, "f"); !bytes.Equal(got, want) {
				t.Errorf("read %d bytes back, want the %d appended", len(got), len(want))
			}
			if free := v.Superblock().FreeBlockCount; free != freeBefore-int32(tt.blocks) {
				t.Errorf("FreeBlockCount = %v, want %v", free, freeBefore-int32(tt.blocks))
			}
			if info, err := v.Stat("f"); err != nil || info.Size() != int64(tt.size) {
				t.Errorf("Stat() = %v, %v, want size %v", info, err, tt.size)
			}
		})
	}
}

func TestVolume_Read(t *testing.T) {
	v, _ := testingVolume(t, 15)
	defer v.Unmount()

	data := testingData(1300)
	testingFile(t, v, "a.txt", data)

	fd, err := v.Open("a.txt", ModeRead)
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close(fd)

	steps := []struct {
		length int
		want   []byte
	}{
		{length: 0, want: []byte{}},
		{length: 10, want: data[:10]},
		{length: 600, want: data[10:610]},
		{length: 1, want: data[610:611]},
		{length: 2000, want: data[611:]},
		{length: 10, want: []byte{}},
		{length: 10, want: []byte{}},
	}
	for i, step := range steps {
		p := make([]byte, step.length)
		n, err := v.Read(fd, p)
		if err != nil {
			t.Fatalf("Read() #%d error = %v", i, err)
		}
		if !bytes.Equal(p[:n], step.want) {
			t.Errorf("Read() #%d returned %d bytes, want %d", i, n, len(step.want))
		}
	}
}

func TestVolume_modeMismatch(t *testing.T) {
	v, _ := testingVolume(t, 15)
	defer v.Unmount()
	testingFile(t, v, "a.txt", []byte("content"))

	reader, err := v.Open("a.txt", ModeRead)
	if err != nil {
		t.Fatal(err)
	}
	appender, err := v.Open("a.txt", ModeAppend)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := v.Append(reader, []byte("x")); !errors.Is(err, ErrModeMismatch) {
		t.Errorf("Append() on a reader error = %v, want %v", err, ErrModeMismatch)
	}
	if _, err := v.Read(appender, make([]byte, 4)); !errors.Is(err, ErrModeMismatch) {
		t.Errorf("Read() on an appender error = %v, want %v", err, ErrModeMismatch)
	}
	if size, _ := v.Size(reader); size != 7 {
		t.Errorf("Size() = %v, want 7", size)
	}
}

func TestVolume_Append_outOfSpace(t *testing.T) {
	v, _ := testingVolume(t, 15)
	defer v.Unmount()

	free := int(v.Superblock().FreeBlockCount)
	if free != 30 {
		t.Fatalf("FreeBlockCount = %v, want 30", free)
	}

	data := testingData(16000)
	if err := v.Create("big"); err != nil {
		t.Fatal(err)
	}
	fd, err := v.Open("big", ModeAppend)
	if err != nil {
		t.Fatal(err)
	}

	n, err := v.Append(fd, data)
	if !errors.Is(err, ErrNoFreeSpace) {
		t.Fatalf("Append() error = %v, want %v", err, ErrNoFreeSpace)
	}
	if n != free*BlockSize {
		t.Errorf("Append() = %v, want %v", n, free*BlockSize)
	}
	if size, _ := v.Size(fd); size != int64(n) {
		t.Errorf("Size() = %v, want %v", size, n)
	}
	if sb := v.Superblock(); sb.FreeBlockCount != 0 || sb.FirstFreeBlock != EndOfChain {
		t.Errorf("FreeBlockCount = %v, FirstFreeBlock = %v, want 0, EndOfChain", sb.FreeBlockCount, sb.FirstFreeBlock)
	}

	// A second file can not get a block, but can still be created.
	testingFile(t, v, "empty", nil)
	other, err := v.Open("empty", ModeAppend)
	if err != nil {
		t.Fatal(err)
	}
	if n, err := v.Append(other, []byte("x")); n != 0 || !errors.Is(err, ErrNoFreeSpace) {
		t.Errorf("Append() = %v, %v, want 0, %v", n, err, ErrNoFreeSpace)
	}
	v.Close(other)
	v.Close(fd)

	if got := readAll(t, v, "big"); !bytes.Equal(got, data[:n]) {
		t.Errorf("big holds %d bytes, want the first %d appended", len(got), n)
	}

	if err := v.Delete("big"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got := v.Superblock().FreeBlockCount; got != int32(free) {
		t.Errorf("FreeBlockCount after Delete() = %v, want %v", got, free)
	}
}

func TestVolume_Append_corruptChain(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(v *Volume, entry *DirectoryEntry)
	}{
		{
			name: "cycle",
			corrupt: func(v *Volume, entry *DirectoryEntry) {
				v.fat.link(entry.FirstBlock, entry.FirstBlock)
			},
		},
		{
			name: "size beyond the chain",
			corrupt: func(v *Volume, entry *DirectoryEntry) {
				entry.Size = 3 * BlockSize
			},
		},
		{
			name: "chain into the metadata",
			corrupt: func(v *Volume, entry *DirectoryEntry) {
				v.fat.link(entry.FirstBlock, 1)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := testingVolume(t, 15)
			defer v.Unmount()

			testingFile(t, v, "a.txt", []byte("content"))
			tt.corrupt(v, &v.dir[v.lookup(encodeName("a.txt"))])
			freeBefore := v.Superblock().FreeBlockCount

			fd, err := v.Open("a.txt", ModeAppend)
			if err != nil {
				t.Fatal(err)
			}
			n, err := v.Append(fd, []byte("more"))
			if n != 0 || !errors.Is(err, ErrCorruptChain) || !errors.Is(err, ErrIO) {
				t.Errorf("Append() = %v, %v, want 0, %v", n, err, ErrCorruptChain)
			}
			if free := v.Superblock().FreeBlockCount; free != freeBefore {
				t.Errorf("FreeBlockCount = %v, want %v", free, freeBefore)
			}
		})
	}
}

func TestVolume_Read_corruptChain(t *testing.T) {
	v, _ := testingVolume(t, 15)
	defer v.Unmount()

	testingFile(t, v, "a.txt", testingData(3*BlockSize))
	entry := v.dir[v.lookup(encodeName("a.txt"))]
	v.fat.link(v.fat.next(entry.FirstBlock), entry.FirstBlock)
	entry.Size = 40 * BlockSize
	v.dir[v.lookup(encodeName("a.txt"))] = entry

	fd, err := v.Open("a.txt", ModeRead)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v.Read(fd, make([]byte, 40*BlockSize)); !errors.Is(err, ErrCorruptChain) {
		t.Errorf("Read() error = %v, want %v", err, ErrCorruptChain)
	}
}

func TestVolume_interleavedReadAndAppend(t *testing.T) {
	v, _ := testingVolume(t, 16)
	defer v.Unmount()
	testingFile(t, v, "log", nil)

	reader, err := v.Open("log", ModeRead)
	if err != nil {
		t.Fatal(err)
	}
	appender, err := v.Open("log", ModeAppend)
	if err != nil {
		t.Fatal(err)
	}

	var want []byte
	buf := make([]byte, 2*BlockSize)
	for i := 0; i < 20; i++ {
		line := []byte(fmt.Sprintf("line %d %s\n", i, bytes.Repeat([]byte{'.'}, i*17)))
		if n, err := v.Append(appender, line); err != nil || n != len(line) {
			t.Fatalf("Append() = %v, %v", n, err)
		}
		want = append(want, line...)

		n, err := v.Read(reader, buf)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if !bytes.Equal(buf[:n], line) {
			t.Errorf("Read() = %q, want %q", buf[:n], line)
		}
		if n, _ := v.Read(reader, buf); n != 0 {
			t.Errorf("Read() at the end = %v, want 0", n)
		}
	}

	if got := readAll(t, v, "log"); !bytes.Equal(got, want) {
		t.Errorf("log holds %d bytes, want %d", len(got), len(want))
	}
}

func TestVolume_concurrentAppend(t *testing.T) {
	v, _ := testingVolume(t, 18)
	defer v.Unmount()

	const files = 8
	var wg sync.WaitGroup
	for i := 0; i < files; i++ {
		name := fmt.Sprintf("file%d", i)
		testingFile(t, v, name, nil)

		wg.Add(1)
		go func(name string, fill byte) {
			defer wg.Done()

			fd, err := v.Open(name, ModeAppend)
			if err != nil {
				t.Errorf("Open() error = %v", err)
				return
			}
			defer v.Close(fd)

			for j := 0; j < 20; j++ {
				if _, err := v.Append(fd, bytes.Repeat([]byte{fill}, 100)); err != nil {
					t.Errorf("Append() error = %v", err)
					return
				}
			}
		}(name, byte('a'+i))
	}
	wg.Wait()

	for i := 0; i < files; i++ {
		want := bytes.Repeat([]byte{byte('a' + i)}, 2000)
		if got := readAll(t, v, fmt.Sprintf("file%d", i)); !bytes.Equal(got, want) {
			t.Errorf("file%d holds other bytes than appended", i)
		}
	}
}
