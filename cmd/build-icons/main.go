// Command build-icons generates the React or Vue icon package from the SVG
// assets.
package main

import (
	"os"

	"github.com/kingrea/iconforge/internal/cli"
)

func main() {
	os.Exit(cli.ExecuteBuild())
}
