package main

import (
	"os"

	"roadmate/backend/internal/app"
)

// @title                       RoadMate API
// @version                     1.0
// @description                 Backend for the RoadMate driver-education app: AI chat assistant, accounts and anonymous road reports.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
func main() {
	os.Exit(app.Run())
}
