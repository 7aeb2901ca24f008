package main

import "github.com/venuehub/platform/internal/app"

func main() {
	app.Run("feedback", app.Feedback)
}
