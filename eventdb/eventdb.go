// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb journals the events of committed instructions in SQLite.
package eventdb

import (
	"context"
	"database/sql"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/stakefactory/stakefactory/common"
)

type EventDB struct {
	path          string
	db            *sql.DB
	stmtCache     *stmtCache
	driverVersion string
}

// New create or open the event db at given path.
func New(path string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	// a single connection keeps the in-memory db alive and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventDB{
		path:          path,
		db:            db,
		stmtCache:     newStmtCache(db),
		driverVersion: driverVer,
	}, nil
}

// NewMem create an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Close close the event db.
func (db *EventDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *EventDB) Path() string {
	return db.path
}

func (db *EventDB) DriverVersion() string {
	return db.driverVersion
}

// Insert journals events in one transaction, assigning their sequence numbers.
func (db *EventDB) Insert(events []*Event) error {
	if len(events) == 0 {
		return nil
	}
	stmt, err := db.stmtCache.Prepare(insertEventQuery)
	if err != nil {
		return err
	}

	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	txStmt := tx.Stmt(stmt)
	for _, ev := range events {
		var member []byte
		if ev.Member != nil {
			member = ev.Member.Bytes()
		}
		res, err := txStmt.Exec(ev.Instruction, ev.Name, int64(ev.PoolID), member, int64(ev.Time), ev.Data)
		if err != nil {
			_ = tx.Rollback()
			return errors.Wrap(err, "insert event")
		}
		seq, err := res.LastInsertId()
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		ev.Seq = uint64(seq)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	metricInsertedEvents().Add(int64(len(events)))
	return nil
}

// LastSeq returns the sequence number of the newest event, 0 if there is none.
func (db *EventDB) LastSeq(ctx context.Context) (uint64, error) {
	var seq sql.NullInt64
	if err := db.db.QueryRowContext(ctx, "SELECT MAX(seq) FROM event").Scan(&seq); err != nil {
		return 0, err
	}
	return uint64(seq.Int64), nil
}

func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*Event, error) {
	const query = "SELECT seq, instruction, name, poolID, member, time, data FROM event"
	if filter == nil {
		return db.queryEvents(ctx, query+" ORDER BY seq ASC")
	}
	metricsHandleFilter(filter)

	var args []any
	stmt := query + " WHERE 1"
	if filter.After > 0 {
		args = append(args, int64(filter.After))
		stmt += " AND seq > ?"
	}
	if filter.Instruction != "" {
		args = append(args, filter.Instruction)
		stmt += " AND instruction = ?"
	}
	if filter.Name != "" {
		args = append(args, filter.Name)
		stmt += " AND name = ?"
	}
	if filter.PoolID != nil {
		args = append(args, int64(*filter.PoolID))
		stmt += " AND poolID = ?"
	}
	if filter.Member != nil {
		args = append(args, filter.Member.Bytes())
		stmt += " AND member = ?"
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, int64(filter.Options.Offset), int64(filter.Options.Limit))
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *EventDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
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
			seq         int64
			instruction string
			name        string
			poolID      int64
			member      []byte
			time        int64
			data        []byte
		)
		if err := rows.Scan(
			&seq,
			&instruction,
			&name,
			&poolID,
			&member,
			&time,
			&data,
		); err != nil {
			return nil, err
		}
		ev := &Event{
			Seq:         uint64(seq),
			Instruction: instruction,
			Name:        name,
			PoolID:      uint64(poolID),
			Time:        uint64(time),
			Data:        data,
		}
		if len(member) > 0 {
			addr := common.BytesToAddress(member)
			ev.Member = &addr
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
