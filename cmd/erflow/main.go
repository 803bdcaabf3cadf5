package main

import "github.com/emilianobruni/erflow/internal/cli"

func main() {
	cli.Run()
}
