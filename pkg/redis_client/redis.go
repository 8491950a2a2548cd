package redis_client

import (
	"context"
	"strconv"

	"github.com/morosanmihail/HA-LondonTfL/pkg/util"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Client *redis.Client

const defaultConnectionPassword = ""
const defaultDatabase = 0

// Connect sets up the shared Redis client. Redis is optional, without an address Client stays nil.
func Connect() error {
	password := defaultConnectionPassword
	database := defaultDatabase

	env := util.GetEnvironmentVariables()

	address := env["LONDONTFL_REDIS_ADDRESS"]
	if address == "" {
		log.Info().Msg("Skipping Redis setup")
		return nil
	}

	if env["LONDONTFL_REDIS_PASSWORD"] != "" {
		password = env["LONDONTFL_REDIS_PASSWORD"]
	}

	if env["LONDONTFL_REDIS_DATABASE"] != "" {
		if n, err := strconv.Atoi(env["LONDONTFL_REDIS_DATABASE"]); err == nil {
			database = n
		} else {
			return err
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	})

	statusCmd := client.Ping(context.Background())
	if err := statusCmd.Err(); err != nil {
		return err
	}

	Client = client

	log.Info().Str("address", address).Msg("Redis client setup")

	return nil
}
