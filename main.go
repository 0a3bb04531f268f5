package main

import "github.com/KaramelBytes/synthlab/cmd"

func main() {
	cmd.Execute()
}
