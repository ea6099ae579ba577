package config

import (
	"os"
	"time"
)

type Config struct {
	Port                    string
	Env                     string
	JWTSecret               string
	FirebaseCredentialsPath string
	PostgresConnStr         string
	MongoURI                string
	RedisAddr               string
	RedisPassword           string
	OneSignalAppID          string
	OneSignalAPIKey         string
	S3Bucket                string
	S3Region                string
	S3AccessKeyID           string
	S3SecretAccessKey       string
	NotificationMergeWindow time.Duration
}

func Load() *Config {
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		RedisAddr:               getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:           getEnv("REDIS_PASSWORD", ""),
		OneSignalAppID:          getEnv("ONESIGNAL_APP_ID", ""),
		OneSignalAPIKey:         getEnv("ONESIGNAL_API_KEY", ""),
		S3Bucket:                getEnv("S3_BUCKET", ""),
		S3Region:                getEnv("S3_REGION", "ap-southeast-1"),
		S3AccessKeyID:           getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey:       getEnv("S3_SECRET_ACCESS_KEY", ""),
		NotificationMergeWindow: getDurationEnv("NOTIFICATION_MERGE_WINDOW", time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
