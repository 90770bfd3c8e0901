package main

import "parly-backend/cmd/parly/cmd"

func main() {
	cmd.Execute()
}
