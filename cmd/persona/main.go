package main

import (
	"persona-video/cmd/persona/cmd"
)

func main() {
	cmd.Execute()
}
