package main

import "codebin/internal/cli"

func main() {
	cli.Execute()
}
