package main

import "github.com/3leaps/hermes/internal/cmd"

func main() {
	cmd.Execute()
}
