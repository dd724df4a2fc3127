package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] in the layout of the JSON
// configuration file.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey        string   `json:"token_sign_key"`
		TokenIssuer         string   `json:"token_issuer"`
		TokenDuration       Duration `json:"token_duration"`
		PasswordHashCost    int      `json:"password_hash_cost"`
		PasswordHashWorkers int      `json:"password_hash_workers"`
		ResetTokenTTL       Duration `json:"reset_token_ttl"`
		ResetURLBase        string   `json:"reset_url_base"`
		LogLevel            string   `json:"log_level"`
		Version             string   `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN          string   `json:"dsn"`
			QueryTimeout Duration `json:"query_timeout"`
			MaxOpenConns int      `json:"max_open_conns"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		GRPCAddress    string   `json:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout"`
		MaxBodyBytes   int64    `json:"max_body_bytes"`
		TrustedProxies []string `json:"trusted_proxies"`
	} `json:"server,omitempty"`

	Adapter struct {
		Notifier struct {
			Kind          string   `json:"kind"`
			From          string   `json:"from"`
			SMTPHost      string   `json:"smtp_host"`
			SMTPPort      int      `json:"smtp_port"`
			SMTPUsername  string   `json:"smtp_username"`
			SMTPPassword  string   `json:"smtp_password"`
			MailgunDomain string   `json:"mailgun_domain"`
			MailgunAPIKey string   `json:"mailgun_api_key"`
			WebhookURL    string   `json:"webhook_url"`
			Timeout       Duration `json:"timeout"`
		} `json:"notifier,omitempty"`
	} `json:"adapter,omitempty"`

	Limiter struct {
		Requests  int      `json:"requests"`
		Window    Duration `json:"window"`
		RedisURL  string   `json:"redis_url"`
		CacheSize int      `json:"cache_size"`
	} `json:"limiter,omitempty"`

	Workers struct {
		ResetSweepInterval Duration `json:"reset_sweep_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	n := jsonCfg.Adapter.Notifier
	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:        jsonCfg.App.TokenSignKey,
			TokenIssuer:         jsonCfg.App.TokenIssuer,
			TokenDuration:       time.Duration(jsonCfg.App.TokenDuration),
			PasswordHashCost:    jsonCfg.App.PasswordHashCost,
			PasswordHashWorkers: jsonCfg.App.PasswordHashWorkers,
			ResetTokenTTL:       time.Duration(jsonCfg.App.ResetTokenTTL),
			ResetURLBase:        jsonCfg.App.ResetURLBase,
			LogLevel:            jsonCfg.App.LogLevel,
			Version:             jsonCfg.App.Version,
		},
		Storage: Storage{
			DB: DB{
				DSN:          jsonCfg.Storage.DB.DSN,
				QueryTimeout: time.Duration(jsonCfg.Storage.DB.QueryTimeout),
				MaxOpenConns: jsonCfg.Storage.DB.MaxOpenConns,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			GRPCAddress:    jsonCfg.Server.GRPCAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			MaxBodyBytes:   jsonCfg.Server.MaxBodyBytes,
			TrustedProxies: jsonCfg.Server.TrustedProxies,
		},
		Adapter: Adapter{
			Notifier: Notifier{
				Kind:          n.Kind,
				From:          n.From,
				SMTPHost:      n.SMTPHost,
				SMTPPort:      n.SMTPPort,
				SMTPUsername:  n.SMTPUsername,
				SMTPPassword:  n.SMTPPassword,
				MailgunDomain: n.MailgunDomain,
				MailgunAPIKey: n.MailgunAPIKey,
				WebhookURL:    n.WebhookURL,
				Timeout:       time.Duration(n.Timeout),
			},
		},
		Limiter: Limiter{
			Requests:  jsonCfg.Limiter.Requests,
			Window:    time.Duration(jsonCfg.Limiter.Window),
			RedisURL:  jsonCfg.Limiter.RedisURL,
			CacheSize: jsonCfg.Limiter.CacheSize,
		},
		Workers: Workers{
			ResetSweepInterval: time.Duration(jsonCfg.Workers.ResetSweepInterval),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
