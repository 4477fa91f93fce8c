package servers

import "time"

// Server is one managed remote host. SSH credentials are stored for
// reconnection; panel fields are filled in after a successful install.
type Server struct {
	ID          string `gorm:"primaryKey"`
	Name        string
	Host        string `gorm:"uniqueIndex"`
	SSHPort     uint
	SSHUser     string
	SSHPassword string

	PanelInstalled bool
	AdminURL       string
	AdminPassword  string

	CreatedAt   time.Time
	InstalledAt *time.Time
}
