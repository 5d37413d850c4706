package main

import (
	"log"

	"github.com/clubops/planner/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
