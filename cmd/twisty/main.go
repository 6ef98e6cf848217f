// twisty - animated 3x3x3 cube sequencer with GoCube support.
package main

import (
	"github.com/SeamusWaldron/twisty/internal/cli"
)

func main() {
	cli.Execute()
}
