package main

import "github.com/lai323/kanjidrill/cmd"

func main() {
	cmd.Execute()
}
