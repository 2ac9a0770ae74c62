package models

import "time"

// SiteSettingsID is the fixed primary key of the settings singleton row.
const SiteSettingsID = "1"

// SiteSettings is a single-row table with storefront configuration. It is
// read-only for the API; edits happen through the back office.
type SiteSettings struct {
	ID              string `json:"-" gorm:"primaryKey;type:varchar(36)"`
	SiteName        string `json:"site_name" gorm:"type:varchar(200);default:Kitab"`
	SiteDescription string `json:"site_description"`

	Phone        string `json:"phone" gorm:"type:varchar(20)"`
	Email        string `json:"email" gorm:"type:varchar(255)"`
	Address      string `json:"address"`
	WorkingHours string `json:"working_hours" gorm:"type:varchar(100)"`

	CopyrightYear  int    `json:"copyright_year"`
	Facebook       string `json:"facebook"`
	Instagram      string `json:"instagram"`
	Twitter        string `json:"twitter"`
	Youtube        string `json:"youtube"`
	WhatsappNumber string `json:"whatsapp_number" gorm:"type:varchar(20)"`

	NavbarLogoURL string `json:"navbar_logo_url"`
	FooterLogoURL string `json:"footer_logo_url"`

	UpdatedAt time.Time `json:"updated_at"`
}
