package main

import (
	"github.com/flipmatch/flipmatch-go/internal/cli"
)

func main() {
	cli.Execute()
}
