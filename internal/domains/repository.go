package domains

import (
	"errors"

	"gorm.io/gorm"
)

var ErrDomainNotFound = errors.New("domain not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Save(domain *Domain) error {
	return r.db.Save(domain).Error
}

func (r *Repository) GetAll() ([]Domain, error) {
	var all []Domain
	err := r.db.Order("name").Find(&all).Error
	return all, err
}

func (r *Repository) GetByServer(serverID string) ([]Domain, error) {
	var all []Domain
	err := r.db.Order("name").Find(&all, "server_id = ?", serverID).Error
	return all, err
}

func (r *Repository) GetByName(name string) (*Domain, error) {
	var domain Domain
	err := r.db.First(&domain, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDomainNotFound
	}
	if err != nil {
		return nil, err
	}
	return &domain, nil
}

func (r *Repository) Delete(name string) error {
	return r.db.Delete(&Domain{}, "name = ?", name).Error
}
