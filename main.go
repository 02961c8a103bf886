package main

import "github.com/hasanabusheikh26/superprompt/cmd"

func main() {
	cmd.Execute()
}
