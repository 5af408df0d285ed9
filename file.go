package vsfs

import (
	"errors"
	"io"
	"os"

	"github.com/aligator/vsfs/checkpoint"
)

// These errors may occur while processing a file.
var (
	ErrReadFile  = errors.New("could not read file")
	ErrWriteFile = errors.New("could not append to file")
)

// fileVolume provides all methods needed from a volume for File.
// It mainly exists to be able to mock the Volume in tests.
// Generated mock using mockgen:
//  mockgen -source=file.go -destination=file_mock.go -package vsfs
type fileVolume interface {
	Read(fd Descriptor, p []byte) (int, error)
	Append(fd Descriptor, p []byte) (int, error)
	Close(fd Descriptor) error
	Stat(name string) (os.FileInfo, error)
}

// File is an open descriptor bundled with its volume, usable wherever an
// io.Reader, io.Writer or io.Closer is expected.
type File struct {
	vol  fileVolume
	fd   Descriptor
	name string
	mode Mode
}

// OpenFile opens the file called name like Open and wraps the descriptor.
func (v *Volume) OpenFile(name string, mode Mode) (*File, error) {
	fd, err := v.Open(name, mode)
	if err != nil {
		return nil, err
	}

	return &File{
		vol:  v,
		fd:   fd,
		name: name,
		mode: mode,
	}, nil
}

// Close releases the descriptor and resets the File.
// Closing it again returns os.ErrClosed.
func (f *File) Close() error {
	if f.vol == nil {
		return checkpoint.From(os.ErrClosed)
	}

	err := f.vol.Close(f.fd)

	f.vol = nil
	f.fd = 0
	f.name = ""
	f.mode = 0

	return checkpoint.From(err)
}

// Read reads from the cursor of the descriptor. Unlike Volume.Read it returns
// io.EOF once the end of the file is reached.
func (f *File) Read(p []byte) (n int, err error) {
	if f.vol == nil {
		return 0, checkpoint.From(os.ErrClosed)
	}
	if len(p) == 0 {
		return 0, nil
	}

	n, err = f.vol.Read(f.fd, p)
	if err != nil {
		return n, checkpoint.Wrap(err, ErrReadFile)
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Write appends p to the file. The file must be opened with ModeAppend.
func (f *File) Write(p []byte) (n int, err error) {
	if f.vol == nil {
		return 0, checkpoint.From(os.ErrClosed)
	}

	n, err = f.vol.Append(f.fd, p)
	if err != nil {
		return n, checkpoint.Wrap(err, ErrWriteFile)
	}
	return n, nil
}

func (f *File) WriteString(s string) (ret int, err error) {
	return f.Write([]byte(s))
}

func (f *File) Name() string {
	return f.name
}

// Mode is the mode the file was opened with.
func (f *File) Mode() Mode {
	return f.mode
}

// Descriptor is the descriptor wrapped by f.
func (f *File) Descriptor() Descriptor {
	return f.fd
}

func (f *File) Stat() (os.FileInfo, error) {
	if f.vol == nil {
		return nil, checkpoint.From(os.ErrClosed)
	}
	return f.vol.Stat(f.name)
}
