package main

import "github.com/jsphweid/midiclean/cmd"

func main() {
	cmd.Execute()
}
