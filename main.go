package main

import "github.com/beratcankara/inoflow/cmd"

func main() {
	cmd.Execute()
}
