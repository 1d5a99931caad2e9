package main

import "github.com/funvibe/thread/pkg/cli"

func main() {
	cli.Run()
}
