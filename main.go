// The main package for the marquee executable.
package main

import (
	"github.com/tmcfarland/marquee/cmd"
)

func main() {
	cmd.Execute()
}
