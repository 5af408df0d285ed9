package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aligator/vsfs"
	"github.com/aligator/vsfs/checkpoint"
	"github.com/chzyer/logex"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v2"
)

const envVarPrefix = "VSFS"

// Config holds the defaults of the global flags.
type Config struct {
	Disk         string `envconfig:"DISK"          default:"disk.img"`
	SizeExponent uint   `envconfig:"SIZE_EXPONENT" default:"20"`
	Verbose      bool   `envconfig:"VERBOSE"`
}

// VolumeInfo is printed by the info command.
type VolumeInfo struct {
	VolumeID            string `yaml:"volumeID"`
	BlockSize           int32  `yaml:"blockSize"`
	BlockCount          int32  `yaml:"blockCount"`
	FATBlockCount       int32  `yaml:"fatBlockCount"`
	DirectoryBlockCount int32  `yaml:"directoryBlockCount"`
	ReservedBlockCount  int32  `yaml:"reservedBlockCount"`
	FreeBlockCount      int32  `yaml:"freeBlockCount"`
	FreeBytes           int64  `yaml:"freeBytes"`
	Files               int    `yaml:"files"`
	DirectoryCapacity   int32  `yaml:"directoryCapacity"`
}

// FileStat is printed by the stat command.
type FileStat struct {
	Name     string `yaml:"name"`
	Size     int64  `yaml:"size"`
	Created  string `yaml:"created,omitempty"`
	Modified string `yaml:"modified,omitempty"`
}

var fs = afero.NewOsFs()

func main() {
	var config Config
	if err := envconfig.Process(envVarPrefix, &config); err != nil {
		logex.Fatal(fmt.Errorf("parsing environment variables: %w", err))
	}

	if err := newApp(config).Run(os.Args); err != nil {
		logex.Error(err)
		if logex.DebugLevel > 0 {
			for _, frame := range checkpoint.Frames(err) {
				logex.Info("  at ", frame)
			}
		}
		os.Exit(1)
	}
}

func newApp(config Config) *cli.App {
	return &cli.App{
		Name:  "vsfs",
		Usage: "manage files on a vsfs disk image",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "disk",
				Aliases: []string{"d"},
				Usage:   "the disk image holding the volume",
				Value:   config.Disk,
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log debug messages and error checkpoints",
				Value:   config.Verbose,
			},
		},
		Before: func(ctx *cli.Context) error {
			logex.DebugLevel = 0
			if ctx.Bool("verbose") {
				logex.DebugLevel = 1
			}
			return nil
		},
		Commands: []*cli.Command{{
			Name:      "format",
			Aliases:   []string{"mkfs"},
			Usage:     "create or overwrite the disk image with an empty volume",
			ArgsUsage: " ",
			Flags: []cli.Flag{
				&cli.UintFlag{
					Name:    "size-exponent",
					Aliases: []string{"m"},
					Usage: fmt.Sprintf(
						"the image gets 2^m bytes, %d <= m <= %d",
						vsfs.MinSizeExponent,
						vsfs.MaxSizeExponent,
					),
					Value: config.SizeExponent,
				},
			},
			Action: func(ctx *cli.Context) error {
				disk := ctx.String("disk")
				if err := vsfs.Format(fs, disk, ctx.Uint("size-exponent")); err != nil {
					return fmt.Errorf("formatting %s: %w", disk, err)
				}
				logex.Infof("formatted %s with 2^%d bytes", disk, ctx.Uint("size-exponent"))
				return nil
			},
		}, {
			Name:      "create",
			Aliases:   []string{"touch"},
			Usage:     "create an empty file",
			ArgsUsage: "NAME",
			Action: withVolume(func(vol *vsfs.Volume, ctx *cli.Context) error {
				name, err := nameArg(ctx)
				if err != nil {
					return err
				}
				return vol.Create(name)
			}),
		}, {
			Name:      "append",
			Usage:     "append --data or stdin to a file",
			ArgsUsage: "NAME",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "data",
					Usage: "the bytes to append. Defaults to reading stdin.",
				},
				&cli.BoolFlag{
					Name:  "create",
					Usage: "create the file if it doesn't already exist",
				},
			},
			Action: withVolume(func(vol *vsfs.Volume, ctx *cli.Context) error {
				name, err := nameArg(ctx)
				if err != nil {
					return err
				}
				if ctx.Bool("create") {
					if err := vol.Create(name); err != nil && !errors.Is(err, vsfs.ErrAlreadyExists) {
						return err
					}
				}

				file, err := vol.OpenFile(name, vsfs.ModeAppend)
				if err != nil {
					return err
				}
				defer file.Close()

				var src io.Reader = ctx.App.Reader
				if ctx.IsSet("data") {
					src = strings.NewReader(ctx.String("data"))
				}
				n, err := io.Copy(file, src)
				logex.Debugf("appended %d bytes to %s", n, name)
				return err
			}),
		}, {
			Name:      "cat",
			Usage:     "write a file to stdout",
			ArgsUsage: "NAME",
			Action: withVolume(func(vol *vsfs.Volume, ctx *cli.Context) error {
				name, err := nameArg(ctx)
				if err != nil {
					return err
				}

				file, err := vol.OpenFile(name, vsfs.ModeRead)
				if err != nil {
					return err
				}
				defer file.Close()

				_, err = io.Copy(ctx.App.Writer, file)
				return err
			}),
		}, {
			Name:      "rm",
			Aliases:   []string{"delete", "remove"},
			Usage:     "delete a file",
			ArgsUsage: "NAME",
			Action: withVolume(func(vol *vsfs.Volume, ctx *cli.Context) error {
				name, err := nameArg(ctx)
				if err != nil {
					return err
				}
				return vol.Delete(name)
			}),
		}, {
			Name:      "ls",
			Aliases:   []string{"list"},
			Usage:     "list all files",
			ArgsUsage: " ",
			Action: withVolume(func(vol *vsfs.Volume, ctx *cli.Context) error {
				files, err := vol.Files()
				if err != nil {
					return err
				}
				for _, info := range files {
					fmt.Fprintf(
						ctx.App.Writer,
						"%-*s %10d %s\n",
						vsfs.MaxFilenameLength,
						info.Name(),
						info.Size(),
						formatTime(info.ModTime()),
					)
				}
				return nil
			}),
		}, {
			Name:      "stat",
			Usage:     "describe a file as YAML",
			ArgsUsage: "NAME",
			Action: withVolume(func(vol *vsfs.Volume, ctx *cli.Context) error {
				name, err := nameArg(ctx)
				if err != nil {
					return err
				}

				info, err := vol.Stat(name)
				if err != nil {
					return err
				}
				stat := FileStat{
					Name:     info.Name(),
					Size:     info.Size(),
					Modified: formatTime(info.ModTime()),
				}
				if c, ok := info.(interface{ CreateTime() time.Time }); ok {
					stat.Created = formatTime(c.CreateTime())
				}
				return printYAML(ctx.App.Writer, stat)
			}),
		}, {
			Name:      "info",
			Usage:     "describe the volume as YAML",
			ArgsUsage: " ",
			Action: withVolume(func(vol *vsfs.Volume, ctx *cli.Context) error {
				files, err := vol.Files()
				if err != nil {
					return err
				}
				sb := vol.Superblock()
				return printYAML(ctx.App.Writer, VolumeInfo{
					VolumeID:            vol.VolumeID().String(),
					BlockSize:           sb.BlockSize,
					BlockCount:          sb.BlockCount,
					FATBlockCount:       sb.FATBlockCount,
					DirectoryBlockCount: sb.DirectoryBlockCount,
					ReservedBlockCount:  sb.ReservedBlockCount,
					FreeBlockCount:      sb.FreeBlockCount,
					FreeBytes:           int64(sb.FreeBlockCount) * int64(sb.BlockSize),
					Files:               len(files),
					DirectoryCapacity:   sb.DirectoryEntryCount,
				})
			}),
		}},
	}
}

// withVolume mounts the disk for the duration of f and unmounts it afterwards.
func withVolume(f func(*vsfs.Volume, *cli.Context) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		disk := ctx.String("disk")
		vol, err := vsfs.Mount(fs, disk)
		if err != nil {
			return fmt.Errorf("mounting %s: %w", disk, err)
		}

		err = f(vol, ctx)
		if unmountErr := vol.Unmount(); unmountErr != nil && err == nil {
			err = fmt.Errorf("unmounting %s: %w", disk, unmountErr)
		}
		return err
	}
}

func nameArg(ctx *cli.Context) (string, error) {
	if ctx.NArg() != 1 {
		return "", fmt.Errorf("%s: expected exactly one file name, got %d arguments", ctx.Command.Name, ctx.NArg())
	}
	return ctx.Args().First(), nil
}

func printYAML(w io.Writer, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling to YAML: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing YAML: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
