package app

// Settings is the effective, non-secret configuration shown on the
// settings screen.
type Settings struct {
	Appid          string `json:"appid"`
	Location       string `json:"location"`
	GatewayURL     string `json:"gateway_url"`
	GatewayTimeout string `json:"gateway_timeout"`
	CacheTTL       string `json:"cache_ttl"`
	CacheWarmCron  string `json:"cache_warm_cron"`
	SessionIdle    string `json:"session_idle"`
	LoggerMode     string `json:"logger_mode"`
	Workspaces     int    `json:"workspaces"`
}

func (a *Application) Settings() Settings {
	cfg := a.appConfig
	s := Settings{
		Appid:          cfg.System.Appid,
		Location:       cfg.System.Location,
		GatewayURL:     cfg.Gateway.BaseURL,
		GatewayTimeout: cfg.Gateway.Timeout.String(),
		CacheTTL:       cfg.Cache.TTL.String(),
		CacheWarmCron:  cfg.Cache.WarmCron,
		SessionIdle:    cfg.Web.SessionIdle.String(),
		LoggerMode:     cfg.Logger.Mode,
	}
	if a.workspaces != nil {
		s.Workspaces = a.workspaces.Len()
	}
	return s
}
