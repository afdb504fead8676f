// riskcard scores change requests for deployment risk against an editable
// scorecard. Run `riskcard serve` for the HTTP service; the other commands
// work on local files or talk to a running server.
package main

import (
	"os"

	"github.com/corey/riskcard/cmd/riskcard/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
