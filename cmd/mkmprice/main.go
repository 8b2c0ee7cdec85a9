// mkmprice is a command-line pricing assistant for a Cardmarket seller's
// stock: it reads the stock, computes recommended prices from published
// trends and live competition, and submits the approved changes.
package main

import "github.com/mkmtools/mkmprice/cmd/mkmprice/cmd"

func main() {
	cmd.Execute()
}
