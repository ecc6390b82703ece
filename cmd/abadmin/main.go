package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/emiliopalmerini/abadmin/internal/cli"
)

func main() {
	cli.Execute()
}
