package main

import "codedrill/internal/app"

// @title           CodeDrill Auth API
// @version         1.0
// @description     Registration, email verification, login and password reset.
// @BasePath        /
func main() {
	app.Run()
}
