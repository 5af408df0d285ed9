package vsfs

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"syscall"
)

type GoDirEntry struct {
	fs.FileInfo
}

func (g GoDirEntry) Type() fs.FileMode {
	return g.FileInfo.Mode().Type()
}

func (g GoDirEntry) Info() (fs.FileInfo, error) {
	return g.FileInfo, nil
}

type GoFile struct {
	*File
}

func (g GoFile) Stat() (fs.FileInfo, error) {
	return g.File.Stat()
}

func (g GoFile) Read(bytes []byte) (int, error) {
	return g.File.Read(bytes)
}

func (g GoFile) Close() error {
	return g.File.Close()
}

// goRoot is the root directory as fs.ReadDirFile. It lists the files which
// existed when it was opened.
type goRoot struct {
	entries []os.FileInfo
	offset  int
}

func (d *goRoot) Stat() (fs.FileInfo, error) {
	return rootFileInfo{}, nil
}

func (d *goRoot) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: ".", Err: syscall.EISDIR}
}

func (d *goRoot) Close() error {
	return nil
}

func (d *goRoot) ReadDir(n int) ([]fs.DirEntry, error) {
	rest := d.entries[d.offset:]
	if n > 0 {
		if len(rest) == 0 {
			return nil, io.EOF
		}
		if n < len(rest) {
			rest = rest[:n]
		}
	}
	d.offset += len(rest)

	result := make([]fs.DirEntry, len(rest))
	for i, e := range rest {
		result[i] = GoDirEntry{e}
	}
	return result, nil
}

// GoFs exposes a mounted volume as read-only fs.FS.
// Every opened file holds a read descriptor until it is closed.
type GoFs struct {
	vol *Volume
}

// NewGoFS wraps vol. The volume stays owned by the caller.
func NewGoFS(vol *Volume) GoFs {
	return GoFs{vol: vol}
}

func (g GoFs) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	if name == "." {
		entries, err := g.vol.Files()
		if err != nil {
			return nil, &fs.PathError{Op: "open", Path: name, Err: err}
		}
		return &goRoot{entries: entries}, nil
	}

	// There are no subdirectories.
	if strings.Contains(name, "/") {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	file, err := g.vol.OpenFile(name, ModeRead)
	if errors.Is(err, ErrNotFound) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}

	return GoFile{file}, nil
}
