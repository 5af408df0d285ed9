package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/aligator/vsfs"
	"github.com/chzyer/logex"
	"github.com/spf13/afero"
)

// main is just a example main to play with vsfs.
// Without arguments the volume lives in memory, otherwise in the given file.
func main() {
	fs := afero.NewMemMapFs()
	path := "/example.img"
	if len(os.Args) > 1 {
		fs = afero.NewOsFs()
		path = os.Args[1]
	}

	if err := vsfs.Format(fs, path, vsfs.MinSizeExponent); err != nil {
		logex.Fatal(err)
	}

	vol, err := vsfs.Mount(fs, path)
	if err != nil {
		logex.Fatal(err)
	}
	defer vol.Unmount()

	sb := vol.Superblock()
	fmt.Printf("Formatted volume %v: %d blocks of %d bytes, %d free\n\n", vol.VolumeID(), sb.BlockCount, sb.BlockSize, sb.FreeBlockCount)

	if err := vol.Create("a.txt"); err != nil {
		logex.Fatal(err)
	}

	fd, err := vol.Open("a.txt", vsfs.ModeAppend)
	if err != nil {
		logex.Fatal(err)
	}
	data := bytes.Repeat([]byte{0xAB}, 1000)
	n, err := vol.Append(fd, data)
	if err != nil {
		logex.Fatal(err)
	}
	fmt.Println("appended", n, "bytes")
	if err := vol.Close(fd); err != nil {
		logex.Fatal(err)
	}

	fd, err = vol.Open("a.txt", vsfs.ModeRead)
	if err != nil {
		logex.Fatal(err)
	}
	buffer := make([]byte, 1000)
	n, err = vol.Read(fd, buffer)
	if err != nil {
		logex.Fatal(err)
	}
	size, err := vol.Size(fd)
	if err != nil {
		logex.Fatal(err)
	}
	fmt.Println("read", n, "bytes of", size, "equal:", bytes.Equal(buffer, data))
	if err := vol.Close(fd); err != nil {
		logex.Fatal(err)
	}

	files, err := vol.Files()
	if err != nil {
		logex.Fatal(err)
	}
	for _, info := range files {
		fmt.Println(info.Name(), info.Size(), info.ModTime())
	}

	fmt.Printf("\n%d of %d blocks free\n", vol.Superblock().FreeBlockCount, sb.BlockCount)
}
