package main

import "github.com/sphflow/sphflow/cmd"

func main() {
	cmd.Execute()
}
