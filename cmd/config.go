package cmd

import (
	"fmt"
	"time"
)

const (
	OptimizerORS              = "ors"
	OptimizerNearestNeighbour = "nearest"
)

type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	DepotLatitude  float64
	DepotLongitude float64

	// Optimizer selects the route optimizer: OptimizerORS or OptimizerNearestNeighbour.
	Optimizer        string
	ORSBaseURL       string
	ORSAPIKey        string
	ORSProfile       string
	OptimizerTimeout time.Duration

	BatchCloseSchedule string

	// S3Bucket empty disables proof-of-delivery uploads.
	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3PathStyle       bool
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// DSN is the libpq connection string for the configured database.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
