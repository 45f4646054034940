// Command release bumps, tags and publishes the icon packages.
package main

import (
	"os"

	"github.com/kingrea/iconforge/internal/cli"
)

func main() {
	os.Exit(cli.ExecuteRelease())
}
