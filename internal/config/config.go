package config

import (
	"fmt"
	"os"
)

// Config is resolved once at process start and handed to constructors
// explicitly. Nothing in the hot path reads the environment.
type Config struct {
	Port        string
	Storage     string // postgres, sqlite or memory
	ConnString  string
	SQLitePath  string
	RedisURL    string
	FrontendURL string

	PayU     PayU
	Sheets   Sheets
	WhatsApp WhatsApp
}

type PayU struct {
	Key        string
	Salt       string
	MerchantID string
	BaseURL    string
}

type Sheets struct {
	CredentialsPath string
	SpreadsheetID   string
	Range           string
}

type WhatsApp struct {
	AccessToken   string
	PhoneNumberID string
	VerifyToken   string
	BaseURL       string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "9999"),
		Storage:     getEnv("STORAGE", "postgres"),
		ConnString:  os.Getenv("CONN_STRING"),
		SQLitePath:  getEnv("SQLITE_PATH", "vestiga.db"),
		RedisURL:    getEnv("REDIS_URL", "localhost:6379"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		PayU: PayU{
			Key:        os.Getenv("PAYU_KEY"),
			Salt:       os.Getenv("PAYU_SALT"),
			MerchantID: os.Getenv("PAYU_MERCHANT_ID"),
			BaseURL:    getEnv("PAYU_BASE_URL", "https://test.payu.in"),
		},
		Sheets: Sheets{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"),
			Range:           getEnv("GOOGLE_SHEETS_RANGE", "Sheet1!A:Z"),
		},
		WhatsApp: WhatsApp{
			AccessToken:   os.Getenv("WHATSAPP_ACCESS_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			VerifyToken:   os.Getenv("WHATSAPP_VERIFY_TOKEN"),
			BaseURL:       getEnv("WHATSAPP_BASE_URL", "https://graph.facebook.com/v18.0"),
		},
	}

	if cfg.PayU.Key == "" || cfg.PayU.Salt == "" || cfg.PayU.MerchantID == "" {
		return nil, fmt.Errorf("PayU credentials not configured: PAYU_KEY, PAYU_SALT and PAYU_MERCHANT_ID are required")
	}
	if cfg.Storage == "postgres" && cfg.ConnString == "" {
		return nil, fmt.Errorf("CONN_STRING not defined")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
