// Package namecheap drives the registrar side of domain onboarding: switching
// a domain's nameservers to the ones Cloudflare assigns.
package namecheap

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultBaseURL  = "https://api.namecheap.com/xml.response"
	defaultIpifyURL = "https://api.ipify.org"
)

// apiResponse is the envelope every Namecheap XML response uses. Status is
// "OK" or "ERROR"; errors carry their text in Errors.
type apiResponse struct {
	XMLName xml.Name `xml:"ApiResponse"`
	Status  string   `xml:"Status,attr"`
	Errors  struct {
		Messages []string `xml:"Error"`
	} `xml:"Errors"`
}

type Service struct {
	apiUser string
	apiKey  string
	client  *http.Client
	logger  zerolog.Logger

	// overridable in tests
	baseURL  string
	ipifyURL string
}

// NewService builds a registrar client. Namecheap's API authenticates by
// username + key + whitelisted caller IP; the caller IP is discovered at
// request time.
func NewService(apiUser, apiKey string, logger zerolog.Logger) (*Service, error) {
	if apiUser == "" || apiKey == "" {
		return nil, ErrMissingCredentials
	}
	return &Service{
		apiUser:  apiUser,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger.With().Str("component", "namecheap").Logger(),
		baseURL:  defaultBaseURL,
		ipifyURL: defaultIpifyURL,
	}, nil
}

// SetCustomNameservers points the domain at the given nameservers via
// namecheap.domains.dns.setCustom. The domain is split into SLD and TLD at
// the first dot, which covers multi-label TLDs like co.uk as Namecheap
// expects them.
func (s *Service) SetCustomNameservers(domain string, nameservers []string) error {
	if len(nameservers) == 0 {
		return fmt.Errorf("no nameservers provided for %s", domain)
	}

	sld, tld, ok := strings.Cut(domain, ".")
	if !ok {
		return fmt.Errorf("domain %q has no TLD", domain)
	}

	clientIP, err := s.publicIP()
	if err != nil {
		return fmt.Errorf("discovering public IP: %w", err)
	}

	params := url.Values{}
	params.Set("ApiUser", s.apiUser)
	params.Set("ApiKey", s.apiKey)
	params.Set("UserName", s.apiUser)
	params.Set("ClientIp", clientIP)
	params.Set("Command", "namecheap.domains.dns.setCustom")
	params.Set("SLD", sld)
	params.Set("TLD", tld)
	params.Set("Nameservers", strings.Join(nameservers, ","))

	resp, err := s.client.Get(s.baseURL + "?" + params.Encode())
	if err != nil {
		return fmt.Errorf("calling namecheap API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading namecheap response: %w", err)
	}

	var parsed apiResponse
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("parsing namecheap response: %w", err)
	}

	if parsed.Status != "OK" {
		if len(parsed.Errors.Messages) > 0 {
			return fmt.Errorf("%w: %s", ErrAPIError, strings.Join(parsed.Errors.Messages, "; "))
		}
		return fmt.Errorf("%w: status %s", ErrAPIError, parsed.Status)
	}

	s.logger.Info().
		Str("domain", domain).
		Strs("nameservers", nameservers).
		Msg("nameservers updated at registrar")
	return nil
}

// publicIP asks ipify for the caller's address, which Namecheap requires in
// every request and checks against its whitelist.
func (s *Service) publicIP() (string, error) {
	resp, err := s.client.Get(s.ipifyURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	ip := strings.TrimSpace(string(body))
	if ip == "" {
		return "", fmt.Errorf("empty response from %s", s.ipifyURL)
	}
	return ip, nil
}
