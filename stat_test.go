package vsfs

import (
	"os"
	"reflect"
	"testing"
	"time"
)

func TestDirectoryEntry_FileInfo(t *testing.T) {
	entry := DirectoryEntry{
		Name:       encodeName("hello.txt"),
		Size:       9,
		FirstBlock: 40,
		CreateTime: 2,
		CreateDate: 3,
		WriteTime:  6,
		WriteDate:  7,
	}
	want := entryFileInfo{entry: entry}

	if got := entry.FileInfo(); !reflect.DeepEqual(got, want) {
		t.Errorf("DirectoryEntry.FileInfo() = %v, want %v", got, want)
	}
}

func Test_entryFileInfo_Name(t *testing.T) {
	tests := []struct {
		name  string
		entry DirectoryEntry
		want  string
	}{
		{
			name:  "short name",
			entry: DirectoryEntry{Name: encodeName("hello.txt")},
			want:  "hello.txt",
		},
		{
			name:  "name using all bytes",
			entry: DirectoryEntry{Name: encodeName("HelloWorldThisIsALoongFileName.t")},
			want:  "HelloWorldThisIsALoongFileName.t",
		},
		{
			name:  "truncated name",
			entry: DirectoryEntry{Name: encodeName("HelloWorldThisIsALoongFileName.txt")},
			want:  "HelloWorldThisIsALoongFileName.t",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := entryFileInfo{
				entry: tt.entry,
			}
			if got := e.Name(); got != tt.want {
				t.Errorf("entryFileInfo.Name() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_entryFileInfo_Size(t *testing.T) {
	tests := []struct {
		name  string
		entry DirectoryEntry
		want  int64
	}{
		{
			name:  "some size",
			entry: DirectoryEntry{Size: 5555},
			want:  5555,
		},
		{
			name:  "zero size",
			entry: DirectoryEntry{Size: 0},
			want:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := entryFileInfo{
				entry: tt.entry,
			}
			if got := e.Size(); got != tt.want {
				t.Errorf("entryFileInfo.Size() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_entryFileInfo_Mode(t *testing.T) {
	e := entryFileInfo{entry: DirectoryEntry{Name: encodeName("a")}}
	if got := e.Mode(); got != 0644 {
		t.Errorf("entryFileInfo.Mode() = %v, want %v", got, os.FileMode(0644))
	}
	if e.IsDir() {
		t.Errorf("entryFileInfo.IsDir() = true, want false")
	}
}

func Test_entryFileInfo_ModTime(t *testing.T) {
	tests := []struct {
		name  string
		entry DirectoryEntry
		want  time.Time
	}{
		{
			name: "a normal write time and date",
			entry: DirectoryEntry{
				WriteTime: 41936,
				WriteDate: 20890,
			},
			want: time.Date(2020, 12, 26, 20, 30, 32, 0, time.UTC),
		},
		{
			name: "a zero write time and date results in time.Time.IsZero() == true",
			entry: DirectoryEntry{
				WriteTime: 0,
				WriteDate: 0,
			},
			want: time.Time{},
		},
		{
			name: "a zero write time results in 00:00:00.000000000",
			entry: DirectoryEntry{
				WriteTime: 0,
				WriteDate: 20890,
			},
			want: time.Date(2020, 12, 26, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "a zero write day results in time.Time.IsZero() == true",
			entry: DirectoryEntry{
				WriteTime: 41936,
				WriteDate: 20928,
			},
			want: time.Time{},
		},
		{
			name: "a zero write month results in time.Time.IsZero() == true",
			entry: DirectoryEntry{
				WriteTime: 41936,
				WriteDate: 20480,
			},
			want: time.Time{},
		},
		{
			name: "a month > 12 increases the year",
			entry: DirectoryEntry{
				WriteTime: 41936,
				WriteDate: 20922,
			},
			want: time.Date(2021, 1, 26, 20, 30, 32, 0, time.UTC),
		},
		{
			name: "a second > 59 increases the minutes",
			entry: DirectoryEntry{
				WriteTime: 41951,
				WriteDate: 20890,
			},
			want: time.Date(2020, 12, 26, 20, 31, 02, 0, time.UTC),
		},
		{
			name: "a time > 23:59:59 gets limited to 23:59:59",
			entry: DirectoryEntry{
				WriteTime: 51199,
				WriteDate: 20890,
			},
			want: time.Date(2020, 12, 26, 23, 59, 59, 0, time.UTC),
		},
		{
			name: "the create stamp is ignored",
			entry: DirectoryEntry{
				CreateTime: 41936,
				CreateDate: 20890,
			},
			want: time.Time{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := entryFileInfo{
				entry: tt.entry,
			}
			if got := e.ModTime(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("entryFileInfo.ModTime() = %v, want %v", got, tt.want)
			}
			if got := e.ModTime().IsZero(); got != tt.want.IsZero() {
				t.Errorf("entryFileInfo.ModTime().IsZero() = %v, want.IsZero() %v", got, tt.want.IsZero())
			}
		})
	}
}

func Test_entryFileInfo_CreateTime(t *testing.T) {
	e := entryFileInfo{entry: DirectoryEntry{
		CreateTime: 41936,
		CreateDate: 20890,
		WriteTime:  0,
		WriteDate:  0,
	}}
	want := time.Date(2020, 12, 26, 20, 30, 32, 0, time.UTC)
	if got := e.CreateTime(); !got.Equal(want) {
		t.Errorf("entryFileInfo.CreateTime() = %v, want %v", got, want)
	}
}

func Test_entryFileInfo_Sys(t *testing.T) {
	entry := DirectoryEntry{Name: encodeName("AnyHeader"), Size: 3}
	e := entryFileInfo{entry: entry}
	if got := e.Sys(); !reflect.DeepEqual(got, entry) {
		t.Errorf("entryFileInfo.Sys() = %v, want %v", got, entry)
	}
}
