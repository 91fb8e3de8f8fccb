package main

import "github.com/solixos/solixsh/cmd"

func main() {
	cmd.Execute()
}
