package main

import "github.com/oba-canada/alumni-portal/cmd"

func main() {
	cmd.Execute()
}
