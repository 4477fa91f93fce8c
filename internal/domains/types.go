package domains

import "time"

// Domain is one hosted domain assigned to a server. FTP, SSL and Cloudflare
// fields are filled in by the automation and DNS flows as they complete.
type Domain struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	Name     string `gorm:"uniqueIndex"`
	ServerID string `gorm:"index"`

	Account  string
	SitePath string

	FTPLogin    string
	FTPPassword string
	SSLStatus   string

	CloudflareZoneID string
	CloudflareNS     string
	CloudflareStatus string

	CreatedAt time.Time
}
