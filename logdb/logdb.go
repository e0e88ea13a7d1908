// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package logdb keeps the events committed by the farm in a sqlite database, so that they can be
// queried by emitter, account and time.
package logdb

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"
	"sync"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/vechain/farm/state"
	"github.com/vechain/farm/thor"
)

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string

	mu      sync.Mutex
	nextSeq uint64
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// a memory db lives as long as its single connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}

	var maxSeq sql.NullInt64
	if err := db.QueryRow("SELECT MAX(seq) FROM event").Scan(&maxSeq); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path:          path,
		db:            db,
		driverVersion: driverVer,
		nextSeq:       uint64(maxSeq.Int64) + 1,
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// Write stores events emitted at time in one transaction.
func (db *LogDB) Write(events []*state.Event, time uint64) error {
	if len(events) == 0 {
		return nil
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	seq := db.nextSeq
	err := db.execInTx(func(tx *sql.Tx) error {
		for _, ev := range events {
			e := newEvent(seq, time, ev)
			var amount any
			if e.Amount != nil {
				amount = e.Amount.String()
			}
			if _, err := tx.Exec("INSERT INTO event(seq, time, address, name, topic0, topic1, topic2, topic3, amount) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);",
				e.Seq,
				e.Time,
				e.Address.Bytes(),
				e.Name,
				topicValue(e.Topics[0]),
				topicValue(e.Topics[1]),
				topicValue(e.Topics[2]),
				topicValue(e.Topics[3]),
				amount,
			); err != nil {
				return err
			}
			seq++
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "write events")
	}
	db.nextSeq = seq
	return nil
}

func (db *LogDB) execInTx(proc func(*sql.Tx) error) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Filter returns the events matching filter. A nil filter returns everything in insertion order.
func (db *LogDB) Filter(ctx context.Context, filter *Filter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, "SELECT seq, time, address, name, topic0, topic1, topic2, topic3, amount FROM event ORDER BY seq ASC")
	}
	metricsHandleFilter(filter)

	var args []any
	stmt := "SELECT seq, time, address, name, topic0, topic1, topic2, topic3, amount FROM event WHERE 1"
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND time >= ? "
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND time <= ? "
		}
	}
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Address != nil {
			args = append(args, criteria.Address.Bytes())
			stmt += " AND address = ? "
		}
		if criteria.Name != "" {
			args = append(args, criteria.Name)
			stmt += " AND name = ? "
		}
		for j, topic := range criteria.Topics {
			if topic != nil {
				args = append(args, topic.Bytes())
				stmt += fmt.Sprintf(" AND topic%v = ?", j)
			}
		}
		stmt += ")"
		if i == len(filter.CriteriaSet)-1 {
			stmt += ")"
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC "
	} else {
		stmt += " ORDER BY seq ASC "
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq     uint64
			time    uint64
			address []byte
			name    string
			topics  [4][]byte
			amount  sql.NullString
		)
		if err := rows.Scan(
			&seq,
			&time,
			&address,
			&name,
			&topics[0],
			&topics[1],
			&topics[2],
			&topics[3],
			&amount,
		); err != nil {
			return nil, err
		}
		event := &Event{
			Seq:     seq,
			Time:    time,
			Address: thor.BytesToAddress(address),
			Name:    name,
		}
		if amount.Valid {
			v, ok := new(big.Int).SetString(amount.String, 10)
			if !ok {
				return nil, errors.Errorf("corrupted amount %q", amount.String)
			}
			event.Amount = v
		}
		for i, topic := range topics {
			if len(topic) > 0 {
				h := thor.BytesToBytes32(topic)
				event.Topics[i] = &h
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func topicValue(topic *thor.Bytes32) []byte {
	if topic == nil {
		return nil
	}
	return topic.Bytes()
}
