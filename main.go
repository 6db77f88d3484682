package main

import "github.com/jsphweid/chordgen/cmd"

func main() {
	cmd.Execute()
}
