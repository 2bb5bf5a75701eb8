package main

import (
	"fmt"
	"os"

	"github.com/trknhr/sentiment/cmd"
	"github.com/trknhr/sentiment/internal/logger"
)

func main() {
	err := cmd.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
