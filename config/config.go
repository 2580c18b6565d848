package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// SiteSettings is the process-wide display configuration shown to learners
// (site name, bank account for manual transfers). Env values are defaults,
// rows in site_settings override them.
type SiteSettings struct {
	SiteName          string `json:"site_name"`
	BankName          string `json:"bank_name"`
	BankAccountNumber string `json:"bank_account_number"`
	BankAccountName   string `json:"bank_account_name"`
	ContactEmail      string `json:"contact_email"`
}

// Config holds application configuration
type Config struct {
	Port string
	Env  string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBDSN      string

	JWTKey         string
	JWTExpiry      time.Duration
	SaltRound      int
	AppName        string
	EmailSender    string
	AdminEmail     string
	SendgridAPIKey string
	RollbarToken   string

	QuizPassingPercent      int
	ExamDefaultPassingScore int
	TransferCodeDigits      int

	CertTemplatePath string
	CertFontPath     string
	VimeoOEmbedURL   string

	PromoExpiryCron   string
	PendingDigestCron string

	Site SiteSettings
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	AppConfig = fromViper(v)

	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("ENV", "DEV")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "coursehub")
	v.SetDefault("JWT_SECRET_KEY", "defaultSecret")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("SALT_ROUND", 10)
	v.SetDefault("APP_NAME", "CourseHub")
	v.SetDefault("EMAIL_SENDER", "noreply@localhost")
	v.SetDefault("QUIZ_PASSING_PERCENT", 70)
	v.SetDefault("EXAM_DEFAULT_PASSING_SCORE", 70)
	v.SetDefault("TRANSFER_CODE_DIGITS", 4)
	v.SetDefault("VIMEO_OEMBED_URL", "https://vimeo.com/api/oembed.json")
	v.SetDefault("PROMO_EXPIRY_CRON", "0 * * * *")
	v.SetDefault("PENDING_DIGEST_CRON", "0 9 * * *")
	v.SetDefault("SITE_NAME", "CourseHub")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Port: v.GetString("PORT"),
		Env:  strings.ToUpper(v.GetString("ENV")),

		DBDriver:   strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBDSN:      v.GetString("DB_DSN"),

		JWTKey:         v.GetString("JWT_SECRET_KEY"),
		JWTExpiry:      time.Duration(v.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		SaltRound:      v.GetInt("SALT_ROUND"),
		AppName:        v.GetString("APP_NAME"),
		EmailSender:    v.GetString("EMAIL_SENDER"),
		AdminEmail:     v.GetString("ADMIN_EMAIL"),
		SendgridAPIKey: v.GetString("SENDGRID_API_KEY"),
		RollbarToken:   v.GetString("ROLLBAR_TOKEN"),

		QuizPassingPercent:      v.GetInt("QUIZ_PASSING_PERCENT"),
		ExamDefaultPassingScore: v.GetInt("EXAM_DEFAULT_PASSING_SCORE"),
		TransferCodeDigits:      v.GetInt("TRANSFER_CODE_DIGITS"),

		CertTemplatePath: v.GetString("CERT_TEMPLATE_PATH"),
		CertFontPath:     v.GetString("CERT_FONT_PATH"),
		VimeoOEmbedURL:   v.GetString("VIMEO_OEMBED_URL"),

		PromoExpiryCron:   v.GetString("PROMO_EXPIRY_CRON"),
		PendingDigestCron: v.GetString("PENDING_DIGEST_CRON"),

		Site: SiteSettings{
			SiteName:          v.GetString("SITE_NAME"),
			BankName:          v.GetString("BANK_NAME"),
			BankAccountNumber: v.GetString("BANK_ACCOUNT_NUMBER"),
			BankAccountName:   v.GetString("BANK_ACCOUNT_NAME"),
			ContactEmail:      v.GetString("CONTACT_EMAIL"),
		},
	}
}

// Defaults returns a Config populated only from built-in defaults. Tests use it
// so they never depend on the host environment.
func Defaults() *Config {
	v := viper.New()
	setDefaults(v)
	return fromViper(v)
}
