package main

import (
	"errors"
	"fmt"
	"os"

	"referencer/internal/adapters/apiclient"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			fmt.Fprintln(os.Stderr, "not signed in: run `clipctl login` first")
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
