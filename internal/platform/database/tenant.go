package database

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"brandgate/internal/platform/brand"
	"brandgate/internal/platform/config"
)

// TenantClient is the data-access handle for one brand. Schema selection
// happens once at construction; the handle holds no mutable cross-request
// state and is safe to reuse.
type TenantClient struct {
	Brand  brand.ID
	Schema string
	DB     *sql.DB
}

// TenantDBPool lazily opens one database per brand schema and caches the
// handles for the life of the process.
type TenantDBPool struct {
	pools    map[brand.ID]*sql.DB
	mu       sync.RWMutex
	config   config.TenantDBConfig
	registry *brand.Registry
}

func NewTenantDBPool(cfg config.TenantDBConfig, registry *brand.Registry) *TenantDBPool {
	return &TenantDBPool{
		pools:    make(map[brand.ID]*sql.DB),
		config:   cfg,
		registry: registry,
	}
}

// Client returns the scoped handle for the given brand, opening the brand's
// schema on first use.
func (p *TenantDBPool) Client(id brand.ID) (*TenantClient, error) {
	cfg := p.registry.Get(id)
	if cfg == nil {
		return nil, fmt.Errorf("unknown brand %q", id)
	}

	db, err := p.get(id, cfg.Schema)
	if err != nil {
		return nil, err
	}

	return &TenantClient{Brand: id, Schema: cfg.Schema, DB: db}, nil
}

func (p *TenantDBPool) get(id brand.ID, schema string) (*sql.DB, error) {
	p.mu.RLock()
	if db, exists := p.pools[id]; exists {
		p.mu.RUnlock()
		return db, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock
	if db, exists := p.pools[id]; exists {
		return db, nil
	}

	path := filepath.Join(p.config.BasePath, schema+".db")
	dsn := fmt.Sprintf("%s?cache=shared&mode=rwc", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(p.config.MaxConnectionsPerBrand)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	p.pools[id] = db
	return db, nil
}

func (p *TenantDBPool) CloseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, db := range p.pools {
		db.Close()
	}
	p.pools = make(map[brand.ID]*sql.DB)
}
