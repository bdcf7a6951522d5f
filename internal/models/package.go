package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PackageType names one of the three pricing tiers of a service offering.
type PackageType string

const (
	PackageBasic   PackageType = "basic"
	PackagePremium PackageType = "premium"
	PackageLuxury  PackageType = "luxury"
)

// DefaultPackageType is applied when a booking omits the tier.
const DefaultPackageType = PackageBasic

// MinPackageDurationMinutes is the shortest bookable tier.
const MinPackageDurationMinutes = 15

// PackageTypes lists the tiers in display order.
var PackageTypes = []PackageType{PackageBasic, PackagePremium, PackageLuxury}

// Valid reports whether p is one of the known tiers.
func (p PackageType) Valid() bool {
	switch p {
	case PackageBasic, PackagePremium, PackageLuxury:
		return true
	}
	return false
}

// ResolvePackageType returns the requested tier or the default when absent.
func ResolvePackageType(requested *PackageType) PackageType {
	if requested == nil || *requested == "" {
		return DefaultPackageType
	}
	return *requested
}

// PackageTier holds the price, duration and feature list of one tier.
type PackageTier struct {
	Type            PackageType     `json:"type"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes"`
	Includes        []string        `json:"includes"`
}

// PackageSet maps each tier to its definition and is stored as JSONB.
type PackageSet map[PackageType]PackageTier

// Value implements driver.Valuer.
func (s PackageSet) Value() (driver.Value, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner.
func (s *PackageSet) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = PackageSet{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan package set: unsupported type %T", src)
	}
	set := PackageSet{}
	if err := json.Unmarshal(raw, &set); err != nil {
		return fmt.Errorf("scan package set: %w", err)
	}
	*s = set
	return nil
}

// ServiceOffering is a provider's bookable service with its three tiers.
type ServiceOffering struct {
	ID         string     `db:"id" json:"id"`
	ProviderID string     `db:"provider_id" json:"provider_id"`
	Name       string     `db:"name" json:"name"`
	Category   string     `db:"category" json:"category"`
	Packages   PackageSet `db:"packages" json:"packages"`
	Available  bool       `db:"available" json:"available"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// PackageViolation describes one failed package check.
type PackageViolation struct {
	Tier    string `json:"tier"`
	Field   string `json:"field"`
	Message string `json:"message"`
}
