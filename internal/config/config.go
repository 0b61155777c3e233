package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port          string
	DatabaseURL   string
	QuestionsPath string
	BaseURL       string // external base URL, used for join links and QR codes
	MaxPlayers    int
	DefaultRounds int
}

func Load() Config {
	v := viper.New()
	v.SetEnvPrefix("TRIVIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("database_url", "")
	v.SetDefault("questions_path", "data/questions.json")
	v.SetDefault("base_url", "http://localhost:8080")
	v.SetDefault("max_players", 10)
	v.SetDefault("default_rounds", 6)

	return Config{
		Port:          v.GetString("port"),
		DatabaseURL:   v.GetString("database_url"),
		QuestionsPath: v.GetString("questions_path"),
		BaseURL:       strings.TrimRight(v.GetString("base_url"), "/"),
		MaxPlayers:    v.GetInt("max_players"),
		DefaultRounds: v.GetInt("default_rounds"),
	}
}
