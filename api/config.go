package api

import (
	"sync"

	"github.com/spf13/viper"

	"github.com/teamrank/trs/logging"
)

type Config struct {
	StorageConfig
	ServerConfig
	EngineConfig
}

type StorageConfig struct {
	Backend string // "dynamo" or "postgres"

	TableNameUsers        string
	TableNameLobbies      string
	TableNameTeams        string
	TableNameTeamMembers  string
	TableNameSubmissions  string
	TableNameRatings      string
	TableNameJoinRequests string
	TableNameInvitations  string

	PostgresDSN string
}

type ServerConfig struct {
	Port int
}

// EngineConfig parameterizes the reputation engine's power iteration.
// Zero values fall back to the package defaults.
type EngineConfig struct {
	Damping       float64
	MaxIterations int
	Tolerance     float64
}

var settingsOnce sync.Once

func ReadConfig() *Config {
	var conf = &Config{
		StorageConfig: StorageConfig{
			Backend: getStringOrDefault("storage.backend", "dynamo"),

			TableNameUsers:        getStringOrDefault("storage.TableNameUsers", "Users"),
			TableNameLobbies:      getStringOrDefault("storage.TableNameLobbies", "Lobbies"),
			TableNameTeams:        getStringOrDefault("storage.TableNameTeams", "Teams"),
			TableNameTeamMembers:  getStringOrDefault("storage.TableNameTeamMembers", "TeamMembers"),
			TableNameSubmissions:  getStringOrDefault("storage.TableNameSubmissions", "Submissions"),
			TableNameRatings:      getStringOrDefault("storage.TableNameRatings", "Ratings"),
			TableNameJoinRequests: getStringOrDefault("storage.TableNameJoinRequests", "JoinRequests"),
			TableNameInvitations:  getStringOrDefault("storage.TableNameInvitations", "Invitations"),

			PostgresDSN: getStringOrDefault("storage.postgresDsn", ""),
		},
		ServerConfig: ServerConfig{
			Port: getIntOrDefault("server.port", 8080),
		},
		EngineConfig: EngineConfig{
			Damping:       getFloatOrDefault("engine.damping", 0.85),
			MaxIterations: getIntOrDefault("engine.maxIterations", 50),
			Tolerance:     getFloatOrDefault("engine.tolerance", 1e-10),
		},
	}

	settingsOnce.Do(func() {
		logging.Log.Print("Reading settings!")
	})

	return conf
}

func getString(name string) string {
	if viper.IsSet(name) {
		v := viper.GetString(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Fatalf("required environment variable '%s' is missing", name)
	return ""
}

func getInt(name string) int {
	if viper.IsSet(name) {
		v := viper.GetInt(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Fatalf("required environment variable '%s' is missing", name)
	return -1
}

func getBool(name string) bool {
	if viper.IsSet(name) {
		v := viper.GetBool(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Fatalf("required environment variable '%s' is missing", name)
	return false
}

func getIntOrDefault(name string, def int) int {
	if viper.IsSet(name) {
		v := viper.GetInt(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}

func getFloatOrDefault(name string, def float64) float64 {
	if viper.IsSet(name) {
		v := viper.GetFloat64(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}

func getBoolOrDefault(name string, def bool) bool {
	if viper.IsSet(name) {
		v := viper.GetBool(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}

func getStringOrDefault(name string, def string) string {
	if viper.IsSet(name) {
		v := viper.GetString(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}
