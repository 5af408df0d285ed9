package main

import (
	"fmt"
	"os"

	"github.com/aligator/vsfs"
	"github.com/chzyer/logex"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
)

// main creates the zero filled image file a volume is formatted onto.
func main() {
	app := cli.App{
		Name:      "mkdisk",
		Usage:     "create a zero filled disk image of 2^m bytes",
		ArgsUsage: "PATH",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:    "size-exponent",
				Aliases: []string{"m"},
				Usage:   "the image gets 2^m bytes",
				Value:   20,
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "overwrite an existing file",
			},
		},
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() != 1 {
				return fmt.Errorf("expected exactly one path, got %d arguments", ctx.NArg())
			}
			path := ctx.Args().First()
			return makeDisk(afero.NewOsFs(), path, ctx.Uint("size-exponent"), ctx.Bool("force"))
		},
	}

	if err := app.Run(os.Args); err != nil {
		logex.Fatal(err)
	}
}

func makeDisk(fs afero.Fs, path string, sizeExponent uint, force bool) error {
	if sizeExponent < vsfs.MinSizeExponent || sizeExponent > vsfs.MaxSizeExponent {
		return fmt.Errorf("size exponent %d not in [%d, %d]", sizeExponent, vsfs.MinSizeExponent, vsfs.MaxSizeExponent)
	}

	flags := os.O_RDWR | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_RDWR | os.O_CREATE | os.O_TRUNC
	}
	f, err := fs.OpenFile(path, flags, 0644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	size := int64(1) << sizeExponent
	if err := f.Truncate(size); err != nil {
		f.Close()
		return fmt.Errorf("resizing %s to %d bytes: %w", path, size, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}

	logex.Infof("created %s with %d bytes", path, size)
	return nil
}
