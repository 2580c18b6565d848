package config

import (
	"coursehub/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	keySiteName          = "site_name"
	keyBankName          = "bank_name"
	keyBankAccountNumber = "bank_account_number"
	keyBankAccountName   = "bank_account_name"
	keyContactEmail      = "contact_email"
)

func (s *SiteSettings) fields() map[string]*string {
	return map[string]*string{
		keySiteName:          &s.SiteName,
		keyBankName:          &s.BankName,
		keyBankAccountNumber: &s.BankAccountNumber,
		keyBankAccountName:   &s.BankAccountName,
		keyContactEmail:      &s.ContactEmail,
	}
}

// LoadSiteSettings overlays stored settings on the env defaults in
// AppConfig.Site and returns the result.
func LoadSiteSettings(db *gorm.DB) (SiteSettings, error) {
	settings := AppConfig.Site

	var rows []models.SiteSetting
	if err := db.Find(&rows).Error; err != nil {
		return settings, err
	}

	fields := settings.fields()
	for _, row := range rows {
		if dst, ok := fields[row.Key]; ok && row.Value != "" {
			*dst = row.Value
		}
	}
	AppConfig.Site = settings
	return settings, nil
}

// SaveSiteSettings stores every field and makes it the live configuration.
func SaveSiteSettings(db *gorm.DB, settings SiteSettings) error {
	rows := make([]models.SiteSetting, 0, 5)
	for key, value := range settings.fields() {
		rows = append(rows, models.SiteSetting{Key: key, Value: *value})
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rows).Error
	if err != nil {
		return err
	}
	AppConfig.Site = settings
	return nil
}
