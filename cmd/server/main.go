package main

import "kpiflow/internal/app/server"

func main() {
	server.Run()
}
