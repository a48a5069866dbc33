// Package dbconn manages the named target databases that generated queries
// run against. Targets are declared in configuration; pools are opened
// lazily and shared by the query executor and the schema source.
package dbconn

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davidbz/datachat/internal/observability"
)

// Directory resolves target database names to connection pools.
type Directory struct {
	mu    sync.Mutex
	dsns  map[string]string
	pools map[string]*pgxpool.Pool
	names []string
}

// NewDirectory parses the "name=dsn;name=dsn" target declaration.
func NewDirectory(targets string) (*Directory, error) {
	d := &Directory{
		mu:    sync.Mutex{},
		dsns:  make(map[string]string),
		pools: make(map[string]*pgxpool.Pool),
		names: nil,
	}

	for _, pair := range strings.Split(targets, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		name, dsn, found := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		dsn = strings.TrimSpace(dsn)
		if !found || name == "" || dsn == "" {
			return nil, fmt.Errorf("invalid target database declaration: %q", pair)
		}
		if _, exists := d.dsns[name]; exists {
			return nil, fmt.Errorf("duplicate target database: %q", name)
		}

		d.dsns[name] = dsn
		d.names = append(d.names, name)
	}

	return d, nil
}

// Names returns the configured database names in declaration order.
func (d *Directory) Names() []string {
	names := make([]string, len(d.names))
	copy(names, d.names)
	return names
}

// Pool returns the pool for a named database, opening it on first use.
func (d *Directory) Pool(ctx context.Context, name string) (*pgxpool.Pool, error) {
	if name == "" {
		return nil, errors.New("database name cannot be empty")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if pool, ok := d.pools[name]; ok {
		return pool, nil
	}

	dsn, ok := d.dsns[name]
	if !ok {
		return nil, fmt.Errorf("unknown target database: %q", name)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open pool for %q: %w", name, err)
	}

	observability.FromContext(ctx).Info("opened target database pool",
		observability.String("database", name))

	d.pools[name] = pool
	return pool, nil
}

// Close releases all opened pools.
func (d *Directory) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for name, pool := range d.pools {
		pool.Close()
		delete(d.pools, name)
	}
}
