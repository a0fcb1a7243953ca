package main

import "github.com/thereayou/chatwave/internal/server"

func main() {
	server.NewServer().Run()
}
