package main

import (
	"github.com/LENAX/flownet/pkg/cli/cmd"
)

func main() {
	cmd.Execute()
}
