package main

import (
	"github.com/caesium-cloud/relay/cmd"
	"github.com/caesium-cloud/relay/pkg/env"
	"github.com/caesium-cloud/relay/pkg/log"
)

func main() {
	if err := env.Process(); err != nil {
		log.Fatal("environment failure", "error", err)
	}

	if err := cmd.Execute(); err != nil {
		log.Fatal("relay failure", "error", err)
	}
}
