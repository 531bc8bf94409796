package main

import (
	"os"

	"mypyrun/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
