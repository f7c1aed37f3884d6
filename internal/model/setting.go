package model

// SettingKey identifies a site customization value
type SettingKey string

const (
	SettingCustomLogo     SettingKey = "customLogo"
	SettingSiteName       SettingKey = "siteName"
	SettingCustomHeadCode SettingKey = "customHeadCode"
	SettingGTMID          SettingKey = "gtmId"
)

// SettingKeys lists every known key in display order
var SettingKeys = []SettingKey{
	SettingCustomLogo,
	SettingSiteName,
	SettingCustomHeadCode,
	SettingGTMID,
}

// Valid reports whether k is a known setting key
func (k SettingKey) Valid() bool {
	for _, known := range SettingKeys {
		if k == known {
			return true
		}
	}
	return false
}
