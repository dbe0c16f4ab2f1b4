// Command userfinder fetches the users list once and lets the operator
// browse and filter it from an interactive menu.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/patric-chuzhbe/userfinder/internal/app"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	a, err := app.New()
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Run(context.Background())
}
