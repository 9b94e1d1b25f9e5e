package main

import "mediapress/cmd"

func main() {
	cmd.Execute()
}
