package main

import (
	"context"
	"fmt"
	"os"

	"FruitStore/internal/cli"
	"FruitStore/internal/config"
)

func main() {
	root := cli.NewRootCommand(config.New())
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
