package main

import "github.com/goheat/goheat/cmd"

func main() {
	cmd.Execute()
}
