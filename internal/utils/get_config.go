package utils

import (
	"log"
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	// Server
	ServerPort string `yaml:"SERVER_PORT"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// JWT
	JWTSecret string `yaml:"JWT_SECRET"`

	// Mailing configuration
	AppURL           string `yaml:"APP_URL"`
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration (recipe images)
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`
}

var config Config

func LoadConfig() {
	file, err := os.ReadFile("config.yaml")
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
		return
	}

	if err := yaml.Unmarshal(file, &config); err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
		return
	}
}

// GetConfig resolves a key from config.yaml, falling back to the process
// environment so deployments without a config file keep working.
func GetConfig(key string) string {
	value := ""
	switch key {
	case "SERVER_PORT":
		value = config.ServerPort
	case "DB_USER":
		value = config.DBUser
	case "DB_NAME":
		value = config.DBName
	case "DB_PASSWORD":
		value = config.DBPassword
	case "DB_PORT":
		value = config.DBPort
	case "DB_HOST":
		value = config.DBHost
	case "JWT_SECRET":
		value = config.JWTSecret
	case "APP_URL":
		value = config.AppURL
	case "SMTP_HOST":
		value = config.SMTPHost
	case "SMTP_PORT":
		value = config.SMTPPort
	case "SMTP_SENDER_NAME":
		value = config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		value = config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		value = config.SMTPAuthPassword
	case "AWS_S3_BUCKET":
		value = config.AWSS3Bucket
	case "AWS_S3_REGION":
		value = config.AWSS3Region
	case "AWS_ACCESS_KEY":
		value = config.AWSAccessKey
	case "AWS_SECRET_KEY":
		value = config.AWSSecretKey
	}
	if value == "" {
		return os.Getenv(key)
	}
	return value
}
