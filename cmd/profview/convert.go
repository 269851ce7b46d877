package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"honnef.co/go/profview/profiler"
	"honnef.co/go/profview/profiler/capfile"
	"honnef.co/go/profview/profiler/chrome"

	"github.com/dustin/go-humanize"
	"github.com/google/subcommands"
)

type cmdConvert struct {
	out    string
	format string
}

func (*cmdConvert) Name() string     { return "convert" }
func (*cmdConvert) Synopsis() string { return "Convert between capture formats." }
func (*cmdConvert) Usage() string {
	return "convert -o <output> <input>\n\nConvert a capture, Go execution trace, or JSON trace to a capture or JSON trace.\n\n"
}

func (cmd *cmdConvert) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cmd.out, "o", "", "Output file.")
	f.StringVar(&cmd.format, "format", "", "Output format, 'capture' or 'json'. Defaults to json for .json files and capture otherwise.")
}

func (cmd *cmdConvert) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 || cmd.out == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	c, err := loadCapture(f.Arg(0))
	if err != nil {
		log.Print(err)
		return subcommands.ExitFailure
	}
	if err := writeCapture(cmd.out, cmd.format, c); err != nil {
		log.Print(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// outputFormat picks the format to write path in. explicit overrides the choice based on path's extension.
func outputFormat(path, explicit string) (format, error) {
	switch explicit {
	case "capture":
		return formatCapfile, nil
	case "json":
		return formatChrome, nil
	case "":
		if strings.EqualFold(filepath.Ext(path), ".json") {
			return formatChrome, nil
		}
		return formatCapfile, nil
	default:
		return "", fmt.Errorf("unsupported output format %q", explicit)
	}
}

func writeCapture(path, explicit string, c profiler.Capture) error {
	ff, err := outputFormat(path, explicit)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	switch ff {
	case formatChrome:
		err = chrome.Export(out, c)
	default:
		err = capfile.Encode(out, c)
	}
	if err != nil {
		out.Close()
		return fmt.Errorf("couldn't write %s: %w", path, err)
	}
	fi, statErr := out.Stat()
	if err := out.Close(); err != nil {
		return err
	}
	if statErr == nil {
		log.Printf("wrote %s: %s, %s, %s events", path, ff, humanize.Bytes(uint64(fi.Size())), local.Sprintf("%d", len(c.Events)))
	}
	return nil
}
