package main

import (
	"fmt"
	"os"

	"github.com/LeoncioDev/github-analyzer/internal/model"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, model.Describe(err))
		os.Exit(1)
	}
}
