// @title           VenueHub Platform API
// @version         1.0
// @description     Gateway for the identity, profile, resource and feedback services.
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import "github.com/venuehub/platform/internal/app"

func main() {
	app.Run("gateway", app.Gateway)
}
