package config

import (
	"fmt"
	"time"
)

// Database holds the database configuration
type Database struct {
	Username     string `envconfig:"DB_USERNAME"`
	Password     string `envconfig:"DB_PASSWORD"`
	Host         string `envconfig:"DB_HOST"`
	Port         string `envconfig:"DB_PORT"`
	Database     string `envconfig:"DB_DATABASE"`
	SSLMode      string `envconfig:"DB_SSL_MODE" default:"require"`
	PoolMaxConns int    `envconfig:"DB_POOL_MAX_CONNS" default:"10"`
}

// ToDbConnectionUri returns a connection URI to be used with the pgx package
func (d Database) ToDbConnectionUri() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s&pool_max_conns=%d",
		d.Username,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
		d.SSLMode,
		d.PoolMaxConns,
	)
}

// ToMigrationUri returns a connection URI for golang-migrate with pgx5 driver
func (d Database) ToMigrationUri() string {
	return fmt.Sprintf("pgx5://%s:%s@%s:%s/%s?sslmode=%s",
		d.Username,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
		d.SSLMode,
	)
}

// Pipeline holds the endpoints of the capture -> detect -> analyze chain
type Pipeline struct {
	CameraSnapshotURL string `envconfig:"CAMERA_SNAPSHOT_URL" default:"http://localhost:8081/snapshot.jpg"`
	StorageDir        string `envconfig:"STORAGE_DIR" default:"./data/images"`
	VisionEndpoint    string `envconfig:"VISION_ENDPOINT" default:"https://vision.googleapis.com/v1/images:annotate"`
	VisionAPIKey      string `envconfig:"VISION_API_KEY"`
	VisionMaxLabels   int    `envconfig:"VISION_MAX_LABELS" default:"10"`
	LLMEndpoint       string `envconfig:"LLM_ENDPOINT" default:"http://localhost:8082"`
	LLMMaxTokens      int    `envconfig:"LLM_MAX_TOKENS" default:"512"`
	AnalysisTimeout   int    `envconfig:"ANALYSIS_TIMEOUT" default:"60"` // seconds
	MaxRetries        int    `envconfig:"ANALYSIS_MAX_RETRIES" default:"3"`
}

// AnalysisTimeoutDuration returns the analysis timeout as a duration
func (p Pipeline) AnalysisTimeoutDuration() time.Duration {
	return time.Duration(p.AnalysisTimeout) * time.Second
}

// Server holds the configuration for the API server
type Server struct {
	ServerPort          string `envconfig:"SERVER_PORT" default:"8080"`
	Database            Database
	Pipeline            Pipeline
	StatsCacheTTL       int     `envconfig:"STATS_CACHE_TTL" default:"5"`   // seconds, <= 0 disables the cache
	StatsCacheSize      int     `envconfig:"STATS_CACHE_SIZE" default:"16"` // entries
	StatsCommonLimit    int     `envconfig:"STATS_COMMON_LIMIT" default:"5"`
	StatsRecentLimit    int     `envconfig:"STATS_RECENT_LIMIT" default:"10"`
	StatsQueryTimeout   int     `envconfig:"STATS_QUERY_TIMEOUT" default:"30"`  // seconds
	StatsStreamInterval int     `envconfig:"STATS_STREAM_INTERVAL" default:"2"` // seconds
	ToggleRatePerSecond float64 `envconfig:"TOGGLE_RATE_PER_SECOND" default:"2"`
	ToggleBurst         int     `envconfig:"TOGGLE_BURST" default:"4"`
}

// Worker holds the configuration for the analysis retry worker
type Worker struct {
	Database     Database
	Pipeline     Pipeline
	PollInterval int `envconfig:"WORKER_POLL_INTERVAL" default:"1"` // seconds
	Concurrency  int `envconfig:"WORKER_CONCURRENCY" default:"2"`   // number of concurrent workers
}

// Client holds the configuration for binctl
type Client struct {
	ServerURL string `envconfig:"SMARTBIN_URL" default:"http://localhost:8080"`
	Timeout   int    `envconfig:"SMARTBIN_TIMEOUT" default:"90"` // seconds
}
