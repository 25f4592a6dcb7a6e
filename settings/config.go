package settings

import (
	"fmt"
	"os"
	"strconv"
)

// DBConfig holds the connection settings for the bar and history record
// database.
type DBConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

// ConnectionString renders the config as a lib/pq DSN.
func (c DBConfig) ConnectionString() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, sslMode)
}

// DBConfigFromEnv reads connection settings from SUTRA_DB_* environment
// variables, typically populated by utils.LoadENV.
func DBConfigFromEnv() DBConfig {
	port, _ := strconv.Atoi(os.Getenv("SUTRA_DB_PORT"))
	if port == 0 {
		port = 5432
	}
	return DBConfig{
		Host:     os.Getenv("SUTRA_DB_HOST"),
		Port:     port,
		User:     os.Getenv("SUTRA_DB_USER"),
		Password: os.Getenv("SUTRA_DB_PASSWORD"),
		DBName:   os.Getenv("SUTRA_DB_NAME"),
		SSLMode:  os.Getenv("SUTRA_DB_SSLMODE"),
	}
}
