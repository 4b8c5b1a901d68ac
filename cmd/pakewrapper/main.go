package main

import "pakewrapper/cmd/cli"

func main() {
	cli.RunCLI()
}
