package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr               string
	DatabaseURL            string
	AdminToken             string
	SupabaseURL            string
	SupabaseServiceRoleKey string
	SupabaseBucket         string
	ImageMaxDimension      int
	ImageJPEGQuality       int
}

func MustLoad() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr:               env("HTTP_ADDR", ":8080"),
		DatabaseURL:            mustEnv("DATABASE_URL"),
		AdminToken:             mustEnv("ADMIN_TOKEN"),
		SupabaseURL:            mustEnv("SUPABASE_URL"),
		SupabaseServiceRoleKey: mustEnv("SUPABASE_SERVICE_ROLE_KEY"),
		SupabaseBucket:         env("SUPABASE_BUCKET", "content-images"),
		ImageMaxDimension:      envInt("IMAGE_MAX_DIMENSION", 1080),
		ImageJPEGQuality:       envInt("IMAGE_JPEG_QUALITY", 85),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid env %s: %v", k, err)
	}
	return n
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing env %s", k)
	}
	return v
}
