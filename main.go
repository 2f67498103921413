package main

import (
	"os"

	"github.com/llehouerou/setlist/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
