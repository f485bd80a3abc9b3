package domain

import "time"

// AnalyticsRecord is one append-only row per successful redirect.
//
// Descriptive fields carry the literal "Unknown" (browser and OS names use
// "Other") when the upstream fact is missing. Latitude, longitude and metro
// code stay NULL when geolocation fails entirely.
type AnalyticsRecord struct {
	ID             int64     `gorm:"primaryKey;column:id" json:"id"`
	LinkID         int64     `gorm:"column:link_id;not null;index" json:"link_id"`
	ClickedAt      time.Time `gorm:"column:clicked_at;index" json:"clicked_at"`
	IP             string    `gorm:"column:ip;size:64" json:"ip"`
	UserAgent      string    `gorm:"column:user_agent;type:text" json:"user_agent"`
	Referer        string    `gorm:"column:referer;size:500" json:"referer"`
	DeviceType     string    `gorm:"column:device_type;size:32" json:"device_type"`
	DeviceVendor   string    `gorm:"column:device_vendor;size:64" json:"device_vendor"`
	DeviceModel    string    `gorm:"column:device_model;size:64" json:"device_model"`
	Browser        string    `gorm:"column:browser;size:64" json:"browser"`
	BrowserVersion string    `gorm:"column:browser_version;size:32" json:"browser_version"`
	OS             string    `gorm:"column:os;size:64" json:"os"`
	OSVersion      string    `gorm:"column:os_version;size:32" json:"os_version"`
	Country        string    `gorm:"column:country;size:64" json:"country"`
	CountryCode    string    `gorm:"column:country_code;size:8" json:"country_code"`
	Region         string    `gorm:"column:region;size:64" json:"region"`
	City           string    `gorm:"column:city;size:100" json:"city"`
	Latitude       *float64  `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude      *float64  `gorm:"column:longitude" json:"longitude,omitempty"`
	Timezone       string    `gorm:"column:timezone;size:64" json:"timezone"`
	EU             string    `gorm:"column:eu;size:3" json:"eu"`
	MetroCode      *int      `gorm:"column:metro_code" json:"metro_code,omitempty"`

	// Relationships
	Link *Link `gorm:"foreignKey:LinkID" json:"link,omitempty"`
}

// TableName returns the table name used by GORM.
func (AnalyticsRecord) TableName() string {
	return "analytics_records"
}
