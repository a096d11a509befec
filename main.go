package main

import "github.com/tunebase/tunecli/cmd"

func main() {
	cmd.Execute()
}
