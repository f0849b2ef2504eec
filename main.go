package main

import "github.com/dev-mohitbeniwal/neonvault/cmd"

func main() {
	cmd.Execute()
}
