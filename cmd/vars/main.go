package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/AnatoleLucet/vars/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}

	// commands print their own ExitErrors
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(cli.ExitCommandError)
}
