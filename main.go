package main

import "github.com/pbun206/repeater/cmd"

func main() {
	cmd.Execute()
}
