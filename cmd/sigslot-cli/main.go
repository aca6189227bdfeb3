package main

import (
	"github.com/nfrund/sigslot/cmd/sigslot-cli/cmd"
)

func main() {
	cmd.Execute()
}
