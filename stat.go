package vsfs

import (
	"os"
	"time"
)

// FileInfo describes the entry as os.FileInfo.
func (e *DirectoryEntry) FileInfo() os.FileInfo {
	return entryFileInfo{*e}
}

type entryFileInfo struct {
	entry DirectoryEntry
}

func (e entryFileInfo) Name() string {
	return e.entry.Filename()
}

func (e entryFileInfo) Size() int64 {
	return int64(e.entry.Size)
}

func (e entryFileInfo) Mode() os.FileMode {
	return 0644
}

// ModTime is the time of the last append, or of the creation for empty files.
func (e entryFileInfo) ModTime() time.Time {
	return stampTime(e.entry.WriteDate, e.entry.WriteTime)
}

// CreateTime is the time the file was created.
func (e entryFileInfo) CreateTime() time.Time {
	return stampTime(e.entry.CreateDate, e.entry.CreateTime)
}

func (e entryFileInfo) IsDir() bool {
	return false
}

func (e entryFileInfo) Sys() interface{} {
	return e.entry
}

// stampTime joins a date and a time stamp.
// If the date contains any invalid value time.Time{} is returned.
// The time alone can not be checked that way, because 00:00:00 is perfectly valid.
func stampTime(date, clock uint16) time.Time {
	writeDate := ParseDate(date)
	writeTime := ParseTime(clock)

	if writeDate.IsZero() {
		return time.Time{}
	}

	return time.Date(writeDate.Year(), writeDate.Month(), writeDate.Day(), writeTime.Hour(), writeTime.Minute(), writeTime.Second(), 0, time.UTC)
}

// rootFileInfo describes the only directory of a volume.
type rootFileInfo struct{}

func (rootFileInfo) Name() string       { return "." }
func (rootFileInfo) Size() int64        { return 0 }
func (rootFileInfo) Mode() os.FileMode  { return os.ModeDir | 0755 }
func (rootFileInfo) ModTime() time.Time { return time.Time{} }
func (rootFileInfo) IsDir() bool        { return true }
func (rootFileInfo) Sys() interface{}   { return nil }
