// Command shopfront is a command-line storefront client.
package main

import (
	"context"
	"os"

	"github.com/roach88/shopfront/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:]))
}
