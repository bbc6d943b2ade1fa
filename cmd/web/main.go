package main

import "inkwell_backend/internal/app"

func main() {
	app.Run()
}
