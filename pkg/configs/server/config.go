package server

import (
	"time"

	"github.com/picket-dev/picket/pkg/domain"
)

type ServerConfig struct {
	port        int32
	metricsPort int32
	governance  *GovernanceConfig
}

func (c *ServerConfig) Port() int32 {
	return c.port
}

// Port the loop runner serves /metrics on. 0 = disabled.
func (c *ServerConfig) MetricsPort() int32 {
	return c.metricsPort
}

func (c *ServerConfig) Governance() *GovernanceConfig {
	return c.governance
}

// Configuration for the upload governance stores and policies.
//
// to get `GovernanceConfig` instance, use `GovernanceConfigMarshall.TrySeal()` .
type GovernanceConfig struct {
	database  string
	blobRoot  string
	signKey   string
	quota     *QuotaConfig
	retention *RetentionConfig
}

// Connection string for the metadata database.
func (g *GovernanceConfig) Database() string {
	return g.database
}

// Directory the blob store writes under.
func (g *GovernanceConfig) BlobRoot() string {
	return g.blobRoot
}

// HS256 key signing principal tokens.
func (g *GovernanceConfig) SignKey() string {
	return g.signKey
}

func (g *GovernanceConfig) Quota() *QuotaConfig {
	return g.quota
}

func (g *GovernanceConfig) Retention() *RetentionConfig {
	return g.retention
}

// Upload admission limits per principal.
type QuotaConfig struct {
	perHour int
	perDay  int
}

func (q *QuotaConfig) PerHour() int {
	return q.perHour
}

func (q *QuotaConfig) PerDay() int {
	return q.perDay
}

// Limits as the domain type the admission controller takes.
func (q *QuotaConfig) Limits() domain.QuotaLimits {
	return domain.QuotaLimits{PerHour: q.perHour, PerDay: q.perDay}
}

// Retention policy for stored artifacts.
type RetentionConfig struct {
	ttl      time.Duration
	cooldown time.Duration
}

// How long an artifact lives after creation.
func (r *RetentionConfig) TTL() time.Duration {
	return r.ttl
}

// Pause between scheduled collection passes. default = 24h
func (r *RetentionConfig) Cooldown() time.Duration {
	return r.cooldown
}
