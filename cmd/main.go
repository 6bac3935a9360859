package main

import (
    "github.com/iamkhush/weekly-meals/config"
    "github.com/iamkhush/weekly-meals/routes"
    "github.com/iamkhush/weekly-meals/utils"
)

func main() {
    config.InitDB()
    utils.InitMailer()
    r := routes.SetupRouter()
    r.Run(":8080")
}
