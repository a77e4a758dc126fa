// Command overui-demo exercises the overui widgets in a terminal, or prints
// the element tree after a scripted key sequence.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
