package main

import "github.com/researchaccelerator-hub/media-gateway/cmd"

func main() {
	cmd.Execute()
}
