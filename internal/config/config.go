package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/joho/godotenv"
)

// Config carries every construction-time parameter of the raffle. The raffle
// parameters (fee, interval, oracle identifiers) are fixed for the lifetime of
// the process once loaded.
type Config struct {
	EntryFeeWei          *uint256.Int
	Interval             time.Duration
	KeyHash              common.Hash
	SubscriptionID       uint64
	CallbackGasLimit     uint32
	MinimumConfirmations uint16

	OracleDelay  time.Duration
	UpkeepPoll   time.Duration
	DatabasePath string
	ListenAddr   string

	LogFile      string
	LogErrorFile string
	LogLevel     string
	LogConsole   bool
}

// Load reads the .env file if present and resolves the configuration from the
// environment. Missing or malformed raffle parameters are an error; operational
// settings fall back to defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	entryFee, err := uint256FromEnv("RAFFLE_ENTRY_FEE_WEI")
	if err != nil {
		return nil, err
	}

	intervalSeconds, err := uintFromEnv("RAFFLE_INTERVAL_SECONDS", 64)
	if err != nil {
		return nil, err
	}
	if intervalSeconds == 0 {
		return nil, fmt.Errorf("config: RAFFLE_INTERVAL_SECONDS must be positive")
	}

	subscriptionID, err := uintFromEnv("VRF_SUBSCRIPTION_ID", 64)
	if err != nil {
		return nil, err
	}

	callbackGasLimit, err := uintFromEnv("VRF_CALLBACK_GAS_LIMIT", 32)
	if err != nil {
		return nil, err
	}

	minimumConfirmations, err := uintFromEnv("VRF_MINIMUM_CONFIRMATIONS", 16)
	if err != nil {
		return nil, err
	}

	keyHash := os.Getenv("VRF_KEY_HASH")
	if keyHash == "" {
		return nil, fmt.Errorf("config: VRF_KEY_HASH is required")
	}

	return &Config{
		EntryFeeWei:          entryFee,
		Interval:             time.Duration(intervalSeconds) * time.Second,
		KeyHash:              common.HexToHash(keyHash),
		SubscriptionID:       subscriptionID,
		CallbackGasLimit:     uint32(callbackGasLimit),
		MinimumConfirmations: uint16(minimumConfirmations),
		OracleDelay:          durationFromEnv("ORACLE_DELAY", 10*time.Second),
		UpkeepPoll:           durationFromEnv("UPKEEP_POLL", 5*time.Second),
		DatabasePath:         stringFromEnv("DATABASE_PATH", "raffle.db"),
		ListenAddr:           stringFromEnv("LISTEN_ADDR", ":8080"),
		LogFile:              os.Getenv("LOG_FILE"),
		LogErrorFile:         os.Getenv("LOG_ERROR_FILE"),
		LogLevel:             stringFromEnv("LOG_LEVEL", "debug"),
		LogConsole:           os.Getenv("LOG_CONSOLE") != "false",
	}, nil
}

func stringFromEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func uintFromEnv(key string, bits int) (uint64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, fmt.Errorf("config: %s is required", key)
	}

	value, err := strconv.ParseUint(raw, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}

	return value, nil
}

func uint256FromEnv(key string) (*uint256.Int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return nil, fmt.Errorf("config: %s is required", key)
	}

	value, err := uint256.FromDecimal(raw)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", key, err)
	}
	if value.IsZero() {
		return nil, fmt.Errorf("config: %s must be positive", key)
	}

	return value, nil
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return value
}
