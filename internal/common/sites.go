package common

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ternarybob/hotelwatch/internal/models"
)

// siteFileEntry is the YAML wire format for one target site. Delays
// are declared in seconds, matching the operator-facing convention.
type siteFileEntry struct {
	ID             string     `yaml:"id"`
	Name           string     `yaml:"name"`
	BaseURL        string     `yaml:"base_url"`
	Enabled        bool       `yaml:"enabled"`
	DelayRange     [2]float64 `yaml:"delay_range"`      // [min, max] seconds between requests
	TimeoutSeconds float64    `yaml:"timeout_seconds"`  // per-request timeout
}

type sitesFile struct {
	Sites []siteFileEntry `yaml:"target_sites"`
}

// LoadSites reads target site definitions from a YAML file. Missing
// fields fall back to sane defaults; structural errors are returned.
func LoadSites(path string) ([]models.SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sites file %s: %w", path, err)
	}

	var file sitesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sites file %s: %w", path, err)
	}

	sites := make([]models.SiteConfig, 0, len(file.Sites))
	for _, entry := range file.Sites {
		if entry.ID == "" {
			return nil, fmt.Errorf("sites file %s: site entry missing id", path)
		}

		site := models.SiteConfig{
			ID:             entry.ID,
			Name:           entry.Name,
			BaseURL:        entry.BaseURL,
			Enabled:        entry.Enabled,
			DelayMin:       time.Duration(entry.DelayRange[0] * float64(time.Second)),
			DelayMax:       time.Duration(entry.DelayRange[1] * float64(time.Second)),
			RequestTimeout: time.Duration(entry.TimeoutSeconds * float64(time.Second)),
		}
		applySiteDefaults(&site)

		if site.DelayMax < site.DelayMin {
			return nil, fmt.Errorf("sites file %s: site %s has delay_range max below min", path, entry.ID)
		}

		sites = append(sites, site)
	}

	return sites, nil
}

// DefaultSites returns the built-in target site set, used when no
// sites file is present.
func DefaultSites() []models.SiteConfig {
	sites := []models.SiteConfig{
		{ID: "booking", Name: "Booking.com", BaseURL: "https://www.booking.com", Enabled: true},
		{ID: "agoda", Name: "Agoda", BaseURL: "https://www.agoda.com", Enabled: true},
		{ID: "hotels", Name: "Hotels.com", BaseURL: "https://www.hotels.com", Enabled: true},
	}
	for i := range sites {
		applySiteDefaults(&sites[i])
	}
	return sites
}

func applySiteDefaults(site *models.SiteConfig) {
	if site.Name == "" {
		site.Name = site.ID
	}
	if site.DelayMin <= 0 {
		site.DelayMin = 3 * time.Second
	}
	if site.DelayMax <= 0 {
		site.DelayMax = 8 * time.Second
	}
	if site.RequestTimeout <= 0 {
		site.RequestTimeout = 30 * time.Second
	}
}
