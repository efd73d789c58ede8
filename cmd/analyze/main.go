// cmd/analyze inspects positions from the command line: legal moves, the
// evaluation breakdown and the engine's decision.
package main

import (
	"log"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.SetFlags(0)
		log.Println(err)
		os.Exit(1)
	}
}
