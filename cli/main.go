// Command cli renders a star map to files without running the service.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "starmap:", err)
		os.Exit(1)
	}
}
