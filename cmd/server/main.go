package main

import "github.com/SIDIQMUHAMMADTOHA24/karang-taruna-admin/internal/app"

func main() {
	app.Run()
}
