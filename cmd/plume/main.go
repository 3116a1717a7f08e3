package main

import (
	"context"
	"fmt"
	"os"

	"github.com/simonhull/firebird-suite/plume/internal/commands"
)

func main() {
	if err := commands.NewApp().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
