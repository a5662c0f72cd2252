// browscap classifies user agents against a browscap catalogue.
package main

import (
	"os"

	"github.com/coregx/browscap/cmd/browscap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
