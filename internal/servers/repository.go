package servers

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrServerNotFound = errors.New("server not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Save(server *Server) error {
	if server.ID == "" {
		server.ID = uuid.New().String()
	}
	return r.db.Save(server).Error
}

func (r *Repository) GetAll() ([]Server, error) {
	var all []Server
	err := r.db.Order("created_at").Find(&all).Error
	return all, err
}

func (r *Repository) GetByHost(host string) (*Server, error) {
	var server Server
	err := r.db.First(&server, "host = ?", host).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrServerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &server, nil
}

func (r *Repository) GetByID(id string) (*Server, error) {
	var server Server
	err := r.db.First(&server, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrServerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &server, nil
}

// Get resolves a server by host address or by its display name.
func (r *Repository) Get(hostOrName string) (*Server, error) {
	var server Server
	err := r.db.First(&server, "host = ? OR name = ?", hostOrName, hostOrName).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrServerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &server, nil
}

func (r *Repository) Delete(id string) error {
	return r.db.Delete(&Server{}, "id = ?", id).Error
}

// MarkInstalled records a successful panel installation on the server.
func (r *Repository) MarkInstalled(id, adminURL, adminPassword string, installedAt time.Time) error {
	return r.db.Model(&Server{}).Where("id = ?", id).Updates(map[string]interface{}{
		"panel_installed": true,
		"admin_url":       adminURL,
		"admin_password":  adminPassword,
		"installed_at":    installedAt,
	}).Error
}
