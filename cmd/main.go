package main

import (
	"loaf-backend/config"
	"loaf-backend/routes"
	"loaf-backend/utils"
)

func main() {
	config.InitDB()
	utils.InitS3()
	r := routes.SetupRouter()
	r.Run(":8080")
}
