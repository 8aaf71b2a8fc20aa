package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Auth      AuthConfig      `yaml:"auth" mapstructure:"auth"`
	Webhook   WebhookConfig   `yaml:"webhook" mapstructure:"webhook"`
	Import    ImportConfig    `yaml:"import" mapstructure:"import"`
	Reports   ReportsConfig   `yaml:"reports" mapstructure:"reports"`
	Dashboard DashboardConfig `yaml:"dashboard" mapstructure:"dashboard"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	DatabaseURL    string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns       int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns       int32  `yaml:"min_conns" mapstructure:"min_conns"`
	ConnectRetries int    `yaml:"connect_retries" mapstructure:"connect_retries"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port               int      `yaml:"port" mapstructure:"port"`
	CORSOrigins        []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	RequestTimeoutSecs int      `yaml:"request_timeout_secs" mapstructure:"request_timeout_secs"`
	MaxUploadMB        int64    `yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
	AttachmentsDir     string   `yaml:"attachments_dir" mapstructure:"attachments_dir"`
	LoginRatePerMin    int      `yaml:"login_rate_per_min" mapstructure:"login_rate_per_min"`
}

// AuthConfig configures bearer token issuance.
type AuthConfig struct {
	SecretKey       string `yaml:"secret_key" mapstructure:"secret_key"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes" mapstructure:"token_ttl_minutes"`
	Issuer          string `yaml:"issuer" mapstructure:"issuer"`
}

// WebhookConfig configures the folder-processing automation endpoint.
type WebhookConfig struct {
	BaseURL          string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs      int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	FailureThreshold int    `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int    `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// ImportConfig configures file imports.
type ImportConfig struct {
	TempDir string       `yaml:"temp_dir" mapstructure:"temp_dir"`
	Budget  BudgetLayout `yaml:"budget" mapstructure:"budget"`
}

// BudgetLayout describes where the budget spreadsheet keeps its data.
// Rows and columns are 0-indexed.
type BudgetLayout struct {
	Sheet          string `yaml:"sheet" mapstructure:"sheet"`
	TotalRow       int    `yaml:"total_row" mapstructure:"total_row"`
	TotalCol       int    `yaml:"total_col" mapstructure:"total_col"`
	FirstRow       int    `yaml:"first_row" mapstructure:"first_row"`
	LastRow        int    `yaml:"last_row" mapstructure:"last_row"`
	CodeCol        int    `yaml:"code_col" mapstructure:"code_col"`
	DescriptionCol int    `yaml:"description_col" mapstructure:"description_col"`
	UnitCol        int    `yaml:"unit_col" mapstructure:"unit_col"`
	MonthlyQtyCol  int    `yaml:"monthly_qty_col" mapstructure:"monthly_qty_col"`
	DurationCol    int    `yaml:"duration_col" mapstructure:"duration_col"`
	TotalPriceCol  int    `yaml:"total_price_col" mapstructure:"total_price_col"`
	NoteCol        int    `yaml:"note_col" mapstructure:"note_col"`
}

// ReportsConfig configures generated report files.
type ReportsConfig struct {
	Dir         string `yaml:"dir" mapstructure:"dir"`
	CatalogPath string `yaml:"catalog_path" mapstructure:"catalog_path"`
}

// DashboardConfig holds dashboard thresholds.
type DashboardConfig struct {
	ReductionTargetPercent float64 `yaml:"reduction_target_percent" mapstructure:"reduction_target_percent"`
	ExpiringDays           int     `yaml:"expiring_days" mapstructure:"expiring_days"`
	StaleOrderDays         int     `yaml:"stale_order_days" mapstructure:"stale_order_days"`
	HighValueThreshold     float64 `yaml:"high_value_threshold" mapstructure:"high_value_threshold"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("COSTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("store.connect_retries", 3)
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.request_timeout_secs", 60)
	v.SetDefault("server.max_upload_mb", 50)
	v.SetDefault("server.attachments_dir", "uploads")
	v.SetDefault("server.login_rate_per_min", 10)
	v.SetDefault("auth.secret_key", "")
	v.SetDefault("auth.token_ttl_minutes", 30)
	v.SetDefault("auth.issuer", "contract-costs")
	v.SetDefault("webhook.base_url", "http://localhost:5678")
	v.SetDefault("webhook.timeout_secs", 30)
	v.SetDefault("webhook.failure_threshold", 5)
	v.SetDefault("webhook.reset_timeout_secs", 60)
	v.SetDefault("import.temp_dir", "")
	v.SetDefault("import.budget.sheet", "QQP_Cliente")
	v.SetDefault("import.budget.total_row", 40)
	v.SetDefault("import.budget.total_col", 4)
	v.SetDefault("import.budget.first_row", 11)
	v.SetDefault("import.budget.last_row", 21)
	v.SetDefault("import.budget.code_col", 2)
	v.SetDefault("import.budget.description_col", 3)
	v.SetDefault("import.budget.unit_col", 4)
	v.SetDefault("import.budget.monthly_qty_col", 5)
	v.SetDefault("import.budget.duration_col", 6)
	v.SetDefault("import.budget.total_price_col", 12)
	v.SetDefault("import.budget.note_col", 13)
	v.SetDefault("reports.dir", "reports")
	v.SetDefault("reports.catalog_path", "reports/catalog.db")
	v.SetDefault("dashboard.reduction_target_percent", 15.0)
	v.SetDefault("dashboard.expiring_days", 30)
	v.SetDefault("dashboard.stale_order_days", 15)
	v.SetDefault("dashboard.high_value_threshold", 1000000.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the fields required by a command ("serve", "migrate", "import").
func (c *Config) Validate(mode string) error {
	var missing []string
	if c.Store.DatabaseURL == "" {
		missing = append(missing, "store.database_url")
	}
	if mode == "serve" && c.Auth.SecretKey == "" {
		missing = append(missing, "auth.secret_key")
	}
	if len(missing) > 0 {
		return eris.Errorf("config: missing required fields for %s: %s", mode, strings.Join(missing, ", "))
	}

	if c.Webhook.TimeoutSecs <= 0 {
		return eris.Errorf("config: webhook.timeout_secs must be positive, got %d", c.Webhook.TimeoutSecs)
	}
	if c.Import.Budget.FirstRow > c.Import.Budget.LastRow {
		return eris.Errorf("config: import.budget first_row %d after last_row %d",
			c.Import.Budget.FirstRow, c.Import.Budget.LastRow)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return eris.Errorf("config: server.port out of range: %d", c.Server.Port)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
