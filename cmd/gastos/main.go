package main

import (
	"os"

	"github.com/hvillar/gastos/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
