package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate_Valid(t *testing.T) {
	cfg := &Config{
		Enabled:           true,
		TokenIssuer:       "https://auth.example.com",
		AccessTokenSecret: "0123456789abcdef",
		AccessTokenExpiry: time.Hour,
	}
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate_MissingIssuer(t *testing.T) {
	cfg := &Config{Enabled: true, AccessTokenSecret: "0123456789abcdef"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token_issuer")
}

func TestConfigValidate_ShortSecret(t *testing.T) {
	cfg := &Config{Enabled: true, TokenIssuer: "storagehub", AccessTokenSecret: "short"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_token_secret")
}

func TestConfigValidate_NegativeExpiry(t *testing.T) {
	cfg := &Config{Enabled: true, TokenIssuer: "storagehub", AccessTokenSecret: "0123456789abcdef", AccessTokenExpiry: -time.Second}
	assert.Error(t, cfg.Validate())
}

func TestConfigValidate_Disabled(t *testing.T) {
	cfg := &Config{Enabled: false}
	require.NoError(t, cfg.Validate())
}
