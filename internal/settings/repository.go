// Package settings is a string-keyed configuration store for values the user
// supplies at runtime: API tokens, the default certificate email, the panel
// CLI path override.
package settings

import (
	"errors"

	"gorm.io/gorm"
)

// Well-known setting keys.
const (
	KeyCloudflareToken = "cloudflare_api_token"
	KeyCloudflareEmail = "cloudflare_email"
	KeyNamecheapUser   = "namecheap_api_user"
	KeyNamecheapKey    = "namecheap_api_key"
	KeyLEEmail         = "letsencrypt_email"
	KeyPanelCLIPath    = "panel_cli_path"
)

type Setting struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

// Get returns the stored value, or empty string when the key is absent.
func (r *Repository) Get(key string) string {
	var setting Setting
	err := r.db.First(&setting, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ""
	}
	if err != nil {
		return ""
	}
	return setting.Value
}

func (r *Repository) Save(key, value string) error {
	return r.db.Save(&Setting{Key: key, Value: value}).Error
}

func (r *Repository) GetAll() ([]Setting, error) {
	var all []Setting
	err := r.db.Order("key").Find(&all).Error
	return all, err
}
