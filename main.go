package main

import "team-recruit/cmd/server"

func main() {
	server.Init()
	server.Run()
}
