// Command athlos is an operator CLI for the Athlos API.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("erro:"), err)
		os.Exit(1)
	}
}
