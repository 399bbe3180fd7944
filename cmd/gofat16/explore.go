package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aligator/gofat16"
	"github.com/aligator/gofat16/internal/display"
	"github.com/aligator/gofat16/internal/logger"
	"github.com/spf13/cobra"
)

func createExploreCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "explore [flags] IMAGE",
		Short: "interactively shows entries and their content",
		Long: `Explore lists the root directory and asks for the index of an entry.
The metadata and content of the selected entry are printed, then the list is
shown again. Enter 0 to exit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.openVolume(args[0])
			if err != nil {
				return err
			}
			defer v.Close()

			return explore(cmd.InOrStdin(), cmd.OutOrStdout(), v.Fs, a.config.Format)
		},
	}
}

// explore runs the selection loop until 0 or the end of the input is read.
func explore(in io.Reader, out io.Writer, fs *gofat16.Fs, format string) error {
	log := logger.Logger()
	scanner := bufio.NewScanner(in)
	catalog := display.NewCatalog(fs.Catalog())

	for {
		if err := display.Write(out, "text", catalog); err != nil {
			return err
		}
		fmt.Fprintln(out, "Enter the index of an entry, or 0 to exit:")

		if !scanner.Scan() {
			return scanner.Err()
		}
		fmt.Fprintln(out)

		index, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil {
			fmt.Fprintln(out, "Invalid option")
			continue
		}

		entry, ok, err := fs.Select(index)
		if errors.Is(err, gofat16.ErrSelection) {
			fmt.Fprintln(out, "Invalid option")
			continue
		} else if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		if err := display.Write(out, format, display.NewEntry(entry)); err != nil {
			return err
		}

		data, ok, err := fs.Extract(entry)
		if err != nil {
			// A broken chain only affects this entry.
			log.Errorf("Extracting %s failed: %v", entry.ShortName(), err)
			fmt.Fprintf(out, "\nCould not read %s: %v\n\n", entry.ShortName(), reason(err))
			continue
		}
		if !ok {
			fmt.Fprintln(out, "\nEmpty or sub-directory")
			fmt.Fprintln(out)
			continue
		}

		fmt.Fprintln(out, "\n== Content ==")
		fmt.Fprintln(out)
		if _, err := out.Write(data); err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out)
	}
}

// reason returns the error kind of a failed extraction for the user.
// The full error with its checkpoints is only logged.
func reason(err error) error {
	for _, kind := range []error{
		gofat16.ErrChainCycle,
		gofat16.ErrBadCluster,
		gofat16.ErrInvalidCluster,
		gofat16.ErrShortChain,
		gofat16.ErrIO,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return err
}
