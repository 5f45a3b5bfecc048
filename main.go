package main

import "github.com/rankcraft/backend/cmd"

func main() {
	cmd.Execute()
}
