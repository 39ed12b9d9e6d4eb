package main

import (
	"os"

	"github.com/hpkotak/shellfirm/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
