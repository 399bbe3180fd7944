package main

import (
	"fmt"
	"io"
	"path"

	"github.com/aligator/gofat16/internal/display"
	"github.com/aligator/gofat16/internal/logger"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func createInfoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info [flags] IMAGE",
		Short: "shows the boot record and layout of the volume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.openVolume(args[0])
			if err != nil {
				return err
			}
			defer v.Close()

			return display.Write(cmd.OutOrStdout(), a.config.Format, display.NewVolume(v.Fs))
		},
	}
}

func createListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "ls [flags] IMAGE",
		Aliases: []string{"list"},
		Short:   "lists the root directory entries with their index",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.openVolume(args[0])
			if err != nil {
				return err
			}
			defer v.Close()

			return display.Write(cmd.OutOrStdout(), a.config.Format, display.NewCatalog(v.Catalog()))
		},
	}
}

func createChainCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chain [flags] IMAGE INDEX",
		Short: "shows the cluster chain of an entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.openVolume(args[0])
			if err != nil {
				return err
			}
			defer v.Close()

			entry, err := selectEntry(v, args[1])
			if err != nil {
				return err
			}

			chain, err := v.Chain(entry)
			if err != nil {
				return err
			}

			return display.Write(cmd.OutOrStdout(), a.config.Format, display.NewChain(entry, chain))
		},
	}
}

func createCatCommand(a *app) *cobra.Command {
	var output string

	catCmd := &cobra.Command{
		Use:   "cat [flags] IMAGE INDEX",
		Short: "writes the content of an entry to stdout or a file",
		Long: `Cat extracts the content of the entry with the given index.
Sub-directories have no content. Use --output to write into a file
instead of stdout, which also shows the progress.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.openVolume(args[0])
			if err != nil {
				return err
			}
			defer v.Close()

			entry, err := selectEntry(v, args[1])
			if err != nil {
				return err
			}
			if entry.IsDir() {
				return fmt.Errorf("%s is a sub-directory", entry.ShortName())
			}

			if output != "" {
				return a.copyToFile(cmd, v, entry.ShortName(), output)
			}

			data, _, err := v.Extract(entry)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	catCmd.Flags().StringVarP(&output, "output", "o", "", "Write the content into this file")

	return catCmd
}

// copyToFile streams the root directory file name into output.
func (a *app) copyToFile(cmd *cobra.Command, v *volume, name string, output string) error {
	log := logger.Logger()

	src, err := v.Open(path.Join("/", name))
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}

	dst, err := a.fs.Create(output)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	bar := progressbar.NewOptions(int(info.Size()),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription(name),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowBytes(true),
		progressbar.OptionClearOnFinish(),
	)

	written, err := io.Copy(io.MultiWriter(dst, bar), src)
	if err != nil {
		dst.Close()
		return fmt.Errorf("extract %s: %w", name, err)
	}
	if err := bar.Finish(); err != nil {
		dst.Close()
		return fmt.Errorf("finish progress: %w", err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}

	log.Infof("Extracted %s to %s (%d bytes)", name, output, written)
	return nil
}
