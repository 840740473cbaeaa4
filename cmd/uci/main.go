package main

import (
	"os"

	"github.com/eddmann/c3/uci"
)

func main() {
	uci.Run(os.Stdin, os.Stdout)
}
