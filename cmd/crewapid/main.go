package main

import "github.com/crewlab/crew/cmd/crewapid/cmd"

func main() {
	cmd.Execute()
}
