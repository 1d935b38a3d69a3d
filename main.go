package main

import "go-cycles/cli"

func main() {
	cli.Execute()
}
