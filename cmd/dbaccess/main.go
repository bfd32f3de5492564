package main

import (
	"os"

	"github.com/edvin/dbaccess/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
