// Command feedctl drives the post feed from the terminal. It shares the store
// configuration of the server, and the store's currentUser entry is the
// session.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
