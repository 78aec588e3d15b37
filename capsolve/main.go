package main

import (
	"github.com/capforge/capsolve/capsolve/cmd"
)

func main() {
	cmd.Execute()
}
