package main

import "github.com/mj1618/backtick/cmd"

func main() {
	cmd.Execute()
}
