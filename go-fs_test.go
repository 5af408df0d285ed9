package vsfs

import (
	"errors"
	"io"
	"io/fs"
	"testing"
	"testing/fstest"
)

func TestGoFS(t *testing.T) {
	v, _ := testingVolume(t, 16)
	defer v.Unmount()

	testingFile(t, v, "HelloWorld.txt", []byte("Hello World\n"))
	testingFile(t, v, "README.md", testingData(3*BlockSize+17))
	testingFile(t, v, "empty", nil)

	gofs := NewGoFS(v)
	if err := fstest.TestFS(gofs, "HelloWorld.txt", "README.md", "empty"); err != nil {
		t.Fatal(err)
	}

	for i := range v.openFiles {
		if v.openFiles[i].inUse() {
			t.Errorf("descriptor %d is still open", i)
		}
	}
}

func TestGoFs_Open(t *testing.T) {
	v, _ := testingVolume(t, 15)
	defer v.Unmount()
	testingFile(t, v, "a.txt", []byte("content"))

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "file", path: "a.txt"},
		{name: "root", path: "."},
		{name: "missing file", path: "b.txt", wantErr: fs.ErrNotExist},
		{name: "subdirectory", path: "dir/a.txt", wantErr: fs.ErrNotExist},
		{name: "absolute path", path: "/a.txt", wantErr: fs.ErrInvalid},
		{name: "parent", path: "../a.txt", wantErr: fs.ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewGoFS(v).Open(tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("GoFs.Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var pathErr *fs.PathError
				if !errors.As(err, &pathErr) || pathErr.Path != tt.path {
					t.Errorf("GoFs.Open() error = %v, want a *fs.PathError for %v", err, tt.path)
				}
				return
			}
			if err := f.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		})
	}
}

func TestGoFs_root(t *testing.T) {
	v, _ := testingVolume(t, 15)
	defer v.Unmount()
	testingFile(t, v, "a", nil)
	testingFile(t, v, "b", nil)
	testingFile(t, v, "c", nil)

	f, err := NewGoFS(v).Open(".")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.IsDir() || info.Name() != "." {
		t.Errorf("Stat() = %v, %v, want the root directory", info, err)
	}
	if _, err := f.Read(make([]byte, 1)); err == nil {
		t.Errorf("Read() on the root succeeded")
	}

	dir := f.(fs.ReadDirFile)
	first, err := dir.ReadDir(2)
	if err != nil || len(first) != 2 || first[0].Name() != "a" || first[1].Name() != "b" {
		t.Fatalf("ReadDir(2) = %v, %v, want a and b", first, err)
	}
	rest, err := dir.ReadDir(-1)
	if err != nil || len(rest) != 1 || rest[0].Name() != "c" {
		t.Fatalf("ReadDir(-1) = %v, %v, want c", rest, err)
	}
	if _, err := dir.ReadDir(1); err != io.EOF {
		t.Errorf("ReadDir(1) at the end error = %v, want %v", err, io.EOF)
	}
}
