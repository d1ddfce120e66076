package main

import (
	"placementapi/cmd"
)

func main() {
	cmd.Execute()
}
