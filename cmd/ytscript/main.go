package main

import (
	"os"

	"github.com/nguyentantai21042004/ytscript/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
