// Command profview records, converts, and displays captures of nested timing events.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/google/subcommands"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var local = message.NewPrinter(language.English)

func main() {
	log.SetFlags(0)
	log.SetPrefix("profview: ")

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&cmdView{}, "")
	subcommands.Register(&cmdSnapshot{}, "")
	subcommands.Register(&cmdRecord{}, "")
	subcommands.Register(&cmdConvert{}, "")
	subcommands.Register(&cmdVersion{}, "")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
