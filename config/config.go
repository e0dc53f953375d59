// Package config loads the facilitator and swap configuration from a YAML
// file and SWAPFLOW_-prefixed environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// FacilitatorConfig holds the operator credentials for one network.
type FacilitatorConfig struct {
	Network     string
	OperatorID  string
	OperatorKey string
}

// Config holds the full application configuration.
type Config struct {
	ListenAddress  string
	AllowedOrigins []string
	EnableMetrics  bool
	RequestTimeout time.Duration

	Facilitators []FacilitatorConfig

	// Swap-side settings.
	HederaRPCURL string
	BSCRPCURL    string
	PoolsAPIURL  string
	PoolsTTL     time.Duration
	SlippageBps  int
}

// Load reads configuration from .swapflow.yaml and the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".swapflow")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(".")

	v.SetDefault("listen_address", "localhost:8402")
	v.SetDefault("allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("enable_metrics", true)
	v.SetDefault("request_timeout", "60s")
	v.SetDefault("pools_ttl", "5m")
	v.SetDefault("slippage_bps", 0)

	v.SetEnvPrefix("SWAPFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// config file is optional; env vars may carry everything
	_ = v.ReadInConfig()

	cfg := &Config{
		ListenAddress:  v.GetString("listen_address"),
		AllowedOrigins: v.GetStringSlice("allowed_origins"),
		EnableMetrics:  v.GetBool("enable_metrics"),
		RequestTimeout: v.GetDuration("request_timeout"),
		HederaRPCURL:   v.GetString("hedera_rpc_url"),
		BSCRPCURL:      v.GetString("bsc_rpc_url"),
		PoolsAPIURL:    v.GetString("pools_api_url"),
		PoolsTTL:       v.GetDuration("pools_ttl"),
		SlippageBps:    v.GetInt("slippage_bps"),
	}

	cfg.Facilitators = parseFacilitators(v.Get("facilitators"))
	if single := v.GetString("operator_id"); single != "" && len(cfg.Facilitators) == 0 {
		cfg.Facilitators = []FacilitatorConfig{{
			Network:     v.GetString("facilitator_network"),
			OperatorID:  single,
			OperatorKey: v.GetString("operator_key"),
		}}
	}

	for _, f := range cfg.Facilitators {
		if f.Network == "" || f.OperatorID == "" || f.OperatorKey == "" {
			return nil, fmt.Errorf("facilitator entry needs network, operator_id and operator_key")
		}
	}
	return cfg, nil
}

// parseFacilitators normalizes the facilitators list, which may arrive as
// YAML maps or flattened env strings.
func parseFacilitators(raw interface{}) []FacilitatorConfig {
	entries, err := cast.ToSliceE(raw)
	if err != nil {
		return nil
	}
	var out []FacilitatorConfig
	for _, entry := range entries {
		m, err := cast.ToStringMapStringE(entry)
		if err != nil {
			continue
		}
		out = append(out, FacilitatorConfig{
			Network:     m["network"],
			OperatorID:  m["operator_id"],
			OperatorKey: m["operator_key"],
		})
	}
	return out
}
