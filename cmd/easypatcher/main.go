package main

import "github.com/easypatcher/easypatcher/cmd/easypatcher/cmd"

func main() {
	cmd.Execute()
}
