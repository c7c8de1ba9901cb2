// Command landsplit splits a survey spreadsheet into region buckets from the
// command line.
package main

import (
	"os"

	"github.com/JonMunkholm/landsplit/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
