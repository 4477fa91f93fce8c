// Package cloudflare onboards domains into Cloudflare: zone creation and the
// A records pointing a fresh site at its server.
package cloudflare

import (
	"context"
	"fmt"
	"strings"
	"time"

	cf "github.com/cloudflare/cloudflare-go"
	"github.com/rs/zerolog"
)

// Zone is the subset of zone state the caller persists.
type Zone struct {
	ID          string
	Name        string
	Status      string
	NameServers []string
}

type Service struct {
	api    *cf.API
	logger zerolog.Logger
	sleep  func(time.Duration)
}

// NewService builds a service from the legacy API key + email credential
// pair. Token auth is deliberately not used: zone creation requires
// account-level access that user tokens frequently lack.
func NewService(apiKey, email string, logger zerolog.Logger) (*Service, error) {
	if apiKey == "" || email == "" {
		return nil, ErrMissingCredentials
	}

	api, err := cf.New(apiKey, email)
	if err != nil {
		return nil, fmt.Errorf("creating cloudflare client: %w", err)
	}

	return &Service{
		api:    api,
		logger: logger.With().Str("component", "cloudflare").Logger(),
		sleep:  time.Sleep,
	}, nil
}

// AddZone creates the zone under the first visible account and returns its
// assigned nameservers. A zone that already exists is fetched instead of
// treated as an error, so re-running a pointing command is safe.
func (s *Service) AddZone(ctx context.Context, domain string) (*Zone, error) {
	accounts, _, err := s.api.Accounts(ctx, cf.AccountsListParams{})
	if err != nil {
		return nil, fmt.Errorf("listing cloudflare accounts: %w", err)
	}
	if len(accounts) == 0 {
		return nil, ErrNoAccounts
	}

	zone, err := s.api.CreateZone(ctx, domain, false, cf.Account{ID: accounts[0].ID}, "full")
	if err != nil {
		if !strings.Contains(err.Error(), "already exists") {
			return nil, fmt.Errorf("creating zone %s: %w", domain, err)
		}
		s.logger.Info().Str("domain", domain).Msg("zone already exists, reusing")
		existing, lookupErr := s.findZone(ctx, domain)
		if lookupErr != nil {
			return nil, lookupErr
		}
		zone = *existing
	} else {
		// a freshly created zone sometimes reports empty nameservers for
		// a moment; give the API a beat and re-read
		if len(zone.NameServers) == 0 {
			s.sleep(2 * time.Second)
			refreshed, lookupErr := s.findZone(ctx, domain)
			if lookupErr == nil {
				zone = *refreshed
			}
		}
	}

	s.logger.Info().
		Str("domain", domain).
		Str("zone_id", zone.ID).
		Strs("nameservers", zone.NameServers).
		Msg("zone ready")

	return &Zone{
		ID:          zone.ID,
		Name:        zone.Name,
		Status:      zone.Status,
		NameServers: zone.NameServers,
	}, nil
}

// CreateARecords points @, www, and the wildcard at serverIP, proxied, with
// automatic TTL. Records that already exist are counted as present rather
// than failed. Returns how many of the three records are in place.
func (s *Service) CreateARecords(ctx context.Context, zoneID, domain, serverIP string) (int, error) {
	proxied := true
	names := []string{domain, "www." + domain, "*." + domain}

	created := 0
	for _, name := range names {
		_, err := s.api.CreateDNSRecord(ctx, cf.ZoneIdentifier(zoneID), cf.CreateDNSRecordParams{
			Type:    "A",
			Name:    name,
			Content: serverIP,
			Proxied: &proxied,
			TTL:     1,
		})
		if err != nil {
			if strings.Contains(err.Error(), "already exists") {
				s.logger.Debug().Str("record", name).Msg("A record already exists")
				created++
				continue
			}
			s.logger.Warn().Err(err).Str("record", name).Msg("A record creation failed")
			continue
		}
		created++
	}

	if created == 0 {
		return 0, fmt.Errorf("no A records could be created for %s", domain)
	}
	return created, nil
}

// ZoneStatus re-reads the zone's activation status, used to tell whether the
// registrar-side nameserver change has propagated.
func (s *Service) ZoneStatus(ctx context.Context, domain string) (string, error) {
	zone, err := s.findZone(ctx, domain)
	if err != nil {
		return "", err
	}
	return zone.Status, nil
}

func (s *Service) findZone(ctx context.Context, domain string) (*cf.Zone, error) {
	zones, err := s.api.ListZones(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("listing zones for %s: %w", domain, err)
	}
	for i := range zones {
		if strings.EqualFold(zones[i].Name, domain) {
			return &zones[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrZoneNotFound, domain)
}
