package main

import "github.com/papapumpkin/pickgraph/cmd"

func main() {
	cmd.Execute()
}
