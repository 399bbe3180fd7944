package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/aligator/gofat16"
	"github.com/aligator/gofat16/internal/config"
	"github.com/aligator/gofat16/internal/logger"
	"github.com/aligator/gofat16/internal/partition"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// app is the state shared by all commands.
type app struct {
	fs     afero.Fs
	config config.Config
	flags  config.Config

	// locatePartition finds a partition inside the disk image at path.
	locatePartition func(path string, number int) (partition.Partition, error)
}

// newRootCommand creates the gofat16 command. Images are opened from fs.
func newRootCommand(fs afero.Fs) *cobra.Command {
	a := &app{
		fs:              fs,
		locatePartition: partition.Open,
	}

	rootCmd := &cobra.Command{
		Use:   "gofat16",
		Short: "Explore FAT16 images",
		Long: `gofat16 reads FAT16 images and partitioned disk images containing
a FAT16 volume. It lists the root directory, shows the metadata and cluster
chain of entries and extracts their content. The image is never modified.

Settings may also be given by the environment variables GOFAT16_LOG_LEVEL,
GOFAT16_FORMAT and GOFAT16_PARTITION. Flags take precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Flags())
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.flags.LogLevel, "log-level", "info",
		"Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&a.flags.Format, "format", "text",
		"Output format (text, json, yaml)")
	rootCmd.PersistentFlags().IntVar(&a.flags.Partition, "partition", 0,
		"1-based partition of a disk image holding the volume, 0 if the image is the volume itself")

	rootCmd.AddCommand(createInfoCommand(a))
	rootCmd.AddCommand(createListCommand(a))
	rootCmd.AddCommand(createChainCommand(a))
	rootCmd.AddCommand(createCatCommand(a))
	rootCmd.AddCommand(createExploreCommand(a))

	return rootCmd
}

// setup merges the environment with the flags and installs the logger.
func (a *app) setup(flags *pflag.FlagSet) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if flags.Changed("log-level") {
		cfg.LogLevel = a.flags.LogLevel
	}
	if flags.Changed("format") {
		cfg.Format = a.flags.Format
	}
	if flags.Changed("partition") {
		cfg.Partition = a.flags.Partition
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.SetLogger(log)

	a.config = *cfg
	return nil
}

// volume is an opened image.
type volume struct {
	*gofat16.Fs
	file afero.File
}

func (v *volume) Close() error {
	return v.file.Close()
}

// openVolume opens the image at path. If a partition is configured, the
// volume is read from that partition only.
func (a *app) openVolume(path string) (*volume, error) {
	log := logger.Logger()

	f, err := a.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}

	var reader io.ReadSeeker = f
	if a.config.Partition > 0 {
		p, err := a.locatePartition(path, a.config.Partition)
		if err != nil {
			f.Close()
			return nil, err
		}
		log.Debugf("Using partition %d (type %s) at offset %d, %d bytes", p.Number, p.Type, p.Start, p.Size)
		reader = io.NewSectionReader(f, p.Start, p.Size)
	}

	fs, err := gofat16.New(reader, gofat16.WithLogger(log))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open FAT16 volume: %w", err)
	}

	g := fs.Geometry()
	log.Infof("Opened volume %q (%s): %d entries, %d bytes per cluster, data at offset %d",
		fs.Label(), fs.FSType(), len(fs.Catalog()), g.ClusterSize(), g.DataOffset())

	return &volume{Fs: fs, file: f}, nil
}

// selectEntry resolves a catalog index given on the command line.
// Index 0 selects nothing and is an error here.
func selectEntry(v *volume, arg string) (gofat16.EntryHeader, error) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return gofat16.EntryHeader{}, fmt.Errorf("invalid index %q: %w", arg, gofat16.ErrSelection)
	}

	entry, ok, err := v.Select(index)
	if err != nil {
		return gofat16.EntryHeader{}, err
	}
	if !ok {
		return gofat16.EntryHeader{}, fmt.Errorf("index 0 selects no entry: %w", gofat16.ErrSelection)
	}

	return entry, nil
}
