// @title Team Reputation Service API
// @version 1.0
// @description Peer-reputation and trust-propagation backend for ad-hoc contest teams

// @securityDefinitions.apikey AdminToken
// @in header
// @name x-admin-token
package main

import (
	"github.com/spf13/viper"

	"github.com/teamrank/trs/api"
	"github.com/teamrank/trs/logging"
)

func main() {
	logging.BoostrapLogger()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logging.Log.Errorf("Failed to read config file: %v", err)
		panic("Failed to read config file: " + err.Error())
	}

	config := api.ReadConfig()

	service := api.NewServer(config)
	service.Start()
}
