package main

import "github.com/gaurav-prasanna/cardpipe/cmd"

func main() {
	cmd.Execute()
}
