package main

import "github.com/theirongolddev/rateio/cmd"

func main() {
	cmd.Execute()
}
