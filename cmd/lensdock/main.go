// Command lensdock is a terminal dock for browsing a cluster snapshot.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
