package constants

const (
	// Context Keys
	ContextKeyIsLoggedIn = "isLoggedIn"
	ContextKeySettings   = "settings"

	// Session Keys
	SessionKeyAuthenticated = "authenticated"

	// Setting Keys
	SettingPassword        = "password"
	SettingSiteTitle       = "site_title"
	SettingSiteDescription = "site_description"
	SettingOpenAIBaseURL   = "openai_base_url"
	SettingOpenAIToken     = "openai_token"
	SettingOpenAIModel     = "openai_model"
	SettingBlobAPIURL      = "blob_api_url"
	SettingBlobToken       = "blob_token"
	SettingBackupCron      = "backup_cron"
	SettingBackupLastHash  = "backup_last_hash"
)
