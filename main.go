// pattern: Imperative Shell
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"fanout/internal/cli"
)

var version = "dev"

func main() {
	// Stop parsing flags after the first non-flag arg (the subcommand),
	// so that --help after a subcommand is handled by the subcommand.
	flag.CommandLine.SetInterspersed(false)

	configDir := flag.StringP("config-dir", "c", "", "config directory (default: ~/.config/fanout)")

	// Override flag.Usage before Parse so --help uses the CLI app's help
	flag.Usage = func() {
		app := cli.BuildApp(version, *configDir)
		app.PrintHelp(os.Stderr)
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	app := cli.BuildApp(version, *configDir)
	app.Execute(flag.Args())
}
