package main

import "github.com/eventplanner/backend/cmd/server/cmd"

// @title Event Planner API
// @version 1.0
// @description Event catalog with RSVPs and role-based access

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cmd.Execute()
}
