// SPDX-FileCopyrightText: 2014-2024 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package hdbconnect

import (
	"context"
	"database/sql"
	"database/sql/driver"
)

// DriverName is the name this driver registers itself under with
// database/sql.Open.
const DriverName = "hdb"

var drv = Driver{}

func init() {
	sql.Register(DriverName, drv)
}

// Open implements database/sql/driver.Driver by parsing dsn with ParseDSN
// and connecting immediately - database/sql itself pools the resulting
// Conn, per spec.md Non-goals ("pooling policy out of scope").
func (Driver) Open(dsn string) (driver.Conn, error) {
	c, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	return c.Connect(context.Background())
}

// DB wraps a *sql.DB opened against this driver, adding ExStats for the
// prometheus collector (spec §11 domain stack, "extended *driver.DB
// statistics").
type DB struct {
	*sql.DB
}

// OpenDB wraps sql.OpenDB(connector) in a *DB so ExStats is reachable.
func OpenDB(connector *Connector) *DB {
	return &DB{DB: sql.OpenDB(connector)}
}

// ExStats returns the same process-wide snapshot as Driver.Stats; kept as
// a distinct method so a *DB can be registered with
// collectors.NewDBExStatsCollector independently of the driver-level one.
func (db *DB) ExStats() *Stats { return globalStats.snapshot() }
