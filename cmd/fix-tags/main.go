// Command fix-tags scrapes FIX field dictionaries into per-version tag files.
package main

import "github.com/pfrederiksen/fix-tags/internal/cli"

func main() {
	cli.Execute()
}
