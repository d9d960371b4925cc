package server

import (
	"time"

	"github.com/picket-dev/picket/pkg/domain"
)

type Marshalled[S any] interface {
	trySeal(string) S
}

// seal marshalled object.
//
// this function CAN CAUSE PANIC if misconfiguration is found.
//
// All types named `pkg/configs/server.XxxMarshall` are `Marshalled[*Xxx]` .
func TrySeal[S any](conf Marshalled[S]) S {
	return conf.trySeal("(root)")
}

type ServerConfigMarshall struct {
	Port        int32                     `yaml:"port"`
	MetricsPort int32                     `yaml:"metricsPort,omitempty"`
	Governance  *GovernanceConfigMarshall `yaml:"governance"`
}

var _ Marshalled[*ServerConfig] = &ServerConfigMarshall{}

func (s *ServerConfigMarshall) trySeal(path string) *ServerConfig {
	return &ServerConfig{
		port:        required(s.Port, path+".port"),
		metricsPort: s.MetricsPort,
		governance:  nonnil(s.Governance, path+".governance").trySeal(path + ".governance"),
	}
}

// Configuration of upload governance.
//
// This type is marshalling value and mutable.
// Consider to use immutable version, `GovernanceConfig`.
// You can get `GovernanceConfig` instance with `GovernanceConfigMarshall.TrySeal()`
type GovernanceConfigMarshall struct {
	Database  string                   `yaml:"database"`
	BlobRoot  string                   `yaml:"blobRoot"`
	SignKey   string                   `yaml:"signKey"`
	Quota     *QuotaConfigMarshall     `yaml:"quota,omitempty"`
	Retention *RetentionConfigMarshall `yaml:"retention,omitempty"`
}

// verify configuration value and create "readonly" version of this.
//
// IT WILL PANIC if any misconfiguration is found.
func (g *GovernanceConfigMarshall) TrySeal() *GovernanceConfig {
	return g.trySeal("(root)")
}

func (g *GovernanceConfigMarshall) trySeal(path string) *GovernanceConfig {
	quota := g.Quota
	if quota == nil {
		quota = &QuotaConfigMarshall{}
	}
	retention := g.Retention
	if retention == nil {
		retention = &RetentionConfigMarshall{}
	}
	return &GovernanceConfig{
		database:  required(g.Database, path+".database"),
		blobRoot:  required(g.BlobRoot, path+".blobRoot"),
		signKey:   required(g.SignKey, path+".signKey"),
		quota:     quota.trySeal(path + ".quota"),
		retention: retention.trySeal(path + ".retention"),
	}
}

type QuotaConfigMarshall struct {
	PerHour int `yaml:"perHour,omitempty"`
	PerDay  int `yaml:"perDay,omitempty"`
}

func (q *QuotaConfigMarshall) trySeal(path string) *QuotaConfig {
	defaults := domain.DefaultQuotaLimits()
	perHour := q.PerHour
	if perHour == 0 {
		perHour = defaults.PerHour
	}
	perDay := q.PerDay
	if perDay == 0 {
		perDay = defaults.PerDay
	}
	if perHour < 0 || perDay < 0 || perDay < perHour {
		panic(path + ": limits should be positive and perDay >= perHour")
	}
	return &QuotaConfig{perHour: perHour, perDay: perDay}
}

type RetentionConfigMarshall struct {
	TTLDays         int `yaml:"ttlDays,omitempty"`
	CooldownSeconds int `yaml:"cooldownSeconds,omitempty"`
}

func (r *RetentionConfigMarshall) trySeal(path string) *RetentionConfig {
	ttlDays := r.TTLDays
	if ttlDays == 0 {
		ttlDays = 30
	}
	if ttlDays < 0 {
		panic(path + ".ttlDays should be positive")
	}
	cooldown := time.Duration(r.CooldownSeconds) * time.Second
	if cooldown == 0 {
		cooldown = 24 * time.Hour
	}
	if cooldown < 0 {
		panic(path + ".cooldownSeconds should be positive")
	}
	return &RetentionConfig{
		ttl:      time.Duration(ttlDays) * 24 * time.Hour,
		cooldown: cooldown,
	}
}

func nonnil[T any](v *T, path string) *T {
	if v == nil {
		panic(path + " is required")
	}
	return v
}

func required[T comparable](v T, path string) T {
	if v == *new(T) {
		panic(path + " is required")
	}
	return v
}
