package main

import (
	"log"

	"github.com/thiagokokada/gittergraph/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		log.SetFlags(0)
		log.Fatal(cmd.ErrorMessage(err))
	}
}
