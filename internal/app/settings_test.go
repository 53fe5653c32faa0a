package app

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talkincode/pharmadesk/config"
)

func TestSettingsBeforeInitOmitSecrets(t *testing.T) {
	cfg := *config.DefaultAppConfig
	cfg.Web.SessionSecret = "do-not-print-me"
	cfg.Gateway.Headers = map[string]string{"Authorization": "Bearer hidden-token"}

	out := fmt.Sprintf("%+v", NewApplication(&cfg).Settings())
	assert.NotContains(t, out, "do-not-print-me")
	assert.NotContains(t, out, "hidden-token")
	assert.Contains(t, out, cfg.Gateway.BaseURL)
}
