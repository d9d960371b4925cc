// Package profile holds the picket CLI's per-user settings: where
// picketd is, the bearer token, and the device-local quota ledger.
package profile

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hectane/go-acl"
	yaml "gopkg.in/yaml.v3"

	"github.com/picket-dev/picket/pkg/domain"
)

var ErrProfileNotFound = errors.New("profile file is not found")
var ErrProfileInvalid = errors.New("picket profile is invalid")

type QuotaLimits struct {
	PerHour int `yaml:"perHour"`
	PerDay  int `yaml:"perDay"`
}

// Profile is the settings of one picket server.
type Profile struct {
	// endpoint of picket server, like https://picket.example.org:8080
	ApiRoot string `yaml:"apiRoot"`

	// bearer token naming this device's principal
	Token string `yaml:"token"`

	// path of the quota ledger. default: quota.yaml next to the profile.
	QuotaFile string `yaml:"quotaFile,omitempty"`

	// admission limits. default: 2/hour, 5/day.
	Quota *QuotaLimits `yaml:"quota,omitempty"`
}

func verifyUrl(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs()
}

// Verify Profile
//
// # Return
//
// nil if it is valid. Otherwise, ErrProfileInvalid error.
func (p *Profile) Verify() error {
	if !verifyUrl(p.ApiRoot) {
		return fmt.Errorf("%w: apiRoot is not URL: %s", ErrProfileInvalid, p.ApiRoot)
	}
	if p.Token == "" {
		return fmt.Errorf("%w: token is not set", ErrProfileInvalid)
	}
	if _, err := p.Principal(); err != nil {
		return err
	}
	return nil
}

// Principal reads the subject out of the token without verifying the
// signature; only picketd holds the key.
func (p *Profile) Principal() (string, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(p.Token, &claims); err != nil {
		return "", fmt.Errorf("%w: token can not be parsed: %s", ErrProfileInvalid, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", ErrProfileInvalid)
	}
	return claims.Subject, nil
}

// Limits are the admission limits of this device.
func (p *Profile) Limits() domain.QuotaLimits {
	if p.Quota == nil {
		return domain.DefaultQuotaLimits()
	}
	return domain.QuotaLimits{PerHour: p.Quota.PerHour, PerDay: p.Quota.PerDay}
}

// QuotaPath resolves the quota ledger location. profilePath anchors
// the default.
func (p *Profile) QuotaPath(profilePath string) string {
	if p.QuotaFile != "" {
		return p.QuotaFile
	}
	return filepath.Join(filepath.Dir(profilePath), "quota.yaml")
}

// DefaultPath is ~/.picket/profile.yaml .
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".picket", "profile.yaml")
	}
	return filepath.Join(home, ".picket", "profile.yaml")
}

// Load profile from file.
func Load(path string) (*Profile, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrProfileNotFound, path)
		}
		return nil, err
	}
	p := &Profile{}
	if err := yaml.Unmarshal(buf, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Save profile to file, holding the token to owner-only permission.
func (p *Profile) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), os.FileMode(0700)); err != nil {
		return err
	}
	buf, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf, os.FileMode(0600)); err != nil {
		return err
	}
	// in case the file existed with loose permissions
	return acl.Chmod(path, os.FileMode(0600))
}
