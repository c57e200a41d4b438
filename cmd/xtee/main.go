// Command xtee runs a script in the sample host with its console teed into
// a structured debugger log on stderr.
//
//	xtee [flags] <script> [script-args...]
package main

import "os"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, os.Getenv))
}
