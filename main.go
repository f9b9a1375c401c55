package main

import (
	"os"

	"github.com/zalepa/vacstat/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
