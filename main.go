package main

import "github.com/Greenfield-Taster/ChatService/cmd"

func main() {
	cmd.Execute()
}
