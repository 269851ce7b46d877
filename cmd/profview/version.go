package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	rdebug "runtime/debug"

	"github.com/google/subcommands"
)

const Version = "devel"

type cmdVersion struct {
	verbose bool
}

func (*cmdVersion) Name() string     { return "version" }
func (*cmdVersion) Synopsis() string { return "Print the version." }
func (*cmdVersion) Usage() string    { return "version [-v]\n" }

func (cmd *cmdVersion) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.verbose, "v", false, "Also print the Go version and dependencies.")
}

func (cmd *cmdVersion) Execute(context.Context, *flag.FlagSet, ...any) subcommands.ExitStatus {
	if cmd.verbose {
		PrintVerboseVersion(Version)
	} else {
		PrintVersion(Version)
	}
	return subcommands.ExitSuccess
}

// version returns a version descriptor and reports whether the
// version is a known release.
func version(human string) (_ string, known bool) {
	if human != "devel" {
		return human, true
	}
	if info, ok := rdebug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version, false
	}
	return "devel", false
}

func PrintVersion(human string) {
	human, release := version(human)
	name := filepath.Base(os.Args[0])

	switch {
	case release:
		fmt.Printf("%s %s\n", name, human)
	case human == "devel":
		fmt.Printf("%s (no version)\n", name)
	default:
		fmt.Printf("%s (devel, %s)\n", name, human)
	}
}

func PrintVerboseVersion(human string) {
	PrintVersion(human)
	fmt.Println()
	fmt.Println("Compiled with Go version:", runtime.Version())

	info, ok := rdebug.ReadBuildInfo()
	if !ok {
		fmt.Println("Built without Go modules")
		return
	}
	fmt.Println("Main module:")
	printModule(&info.Main)
	fmt.Println("Dependencies:")
	for _, dep := range info.Deps {
		printModule(dep)
	}
}

func printModule(m *rdebug.Module) {
	fmt.Printf("\t%s", m.Path)
	if m.Version != "(devel)" {
		fmt.Printf("@%s", m.Version)
	}
	if m.Replace != nil {
		fmt.Printf(" (replace: %s)", m.Replace.Path)
	}
	fmt.Println()
}
