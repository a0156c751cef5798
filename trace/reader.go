// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package trace

import (
	"database/sql"
	"os"
	"strings"
	"time"

	"github.com/db47h/lfsrbench/tqv"
	"github.com/pkg/errors"
)

// A Record is a transaction read back from a trace database.
//
type Record struct {
	RunID    string
	Scenario string
	tqv.Transaction
}

// A ResultRecord is a scenario result read back from a trace database.
//
type ResultRecord struct {
	RunID    string
	Scenario string
	Passed   bool
	Error    string
	Wall     time.Duration
	Sim      time.Duration
}

// Query filters records. Empty fields match anything.
//
type Query struct {
	RunID    string
	Scenario string
}

func (q Query) where() (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	if q.RunID != "" {
		conds = append(conds, "run_id = ?")
		args = append(args, q.RunID)
	}
	if q.Scenario != "" {
		conds = append(conds, "scenario = ?")
		args = append(args, q.Scenario)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Reader reads a trace database.
//
type Reader struct {
	db *sql.DB
}

// OpenReader opens an existing trace database.
//
func OpenReader(path string) (*Reader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(err, "open trace")
	}
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return &Reader{db}, nil
}

// Close closes the database.
//
func (r *Reader) Close() error { return r.db.Close() }

// Runs returns the IDs of the runs in the database, oldest first.
//
func (r *Reader) Runs() ([]string, error) {
	rows, err := r.db.Query(`SELECT run_id FROM results GROUP BY run_id ORDER BY MIN(rowid)`)
	if err != nil {
		return nil, errors.Wrap(err, "list runs")
	}
	defer rows.Close()
	var runs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "list runs")
		}
		runs = append(runs, id)
	}
	return runs, errors.Wrap(rows.Err(), "list runs")
}

// Transactions returns the transactions matching q in recording order.
//
func (r *Reader) Transactions(q Query) ([]Record, error) {
	where, args := q.where()
	rows, err := r.db.Query(`SELECT run_id, scenario, seq, kind, address, data, start_time, end_time
		FROM transactions`+where+` ORDER BY rowid`, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query transactions")
	}
	defer rows.Close()
	var recs []Record
	for rows.Next() {
		var (
			rec        Record
			kind       string
			start, end int64
		)
		err := rows.Scan(&rec.RunID, &rec.Scenario, &rec.Seq, &kind, &rec.Address, &rec.Data, &start, &end)
		if err != nil {
			return nil, errors.Wrap(err, "scan transaction")
		}
		if rec.Kind, err = parseKind(kind); err != nil {
			return nil, err
		}
		rec.Start, rec.End = duration(start), duration(end)
		recs = append(recs, rec)
	}
	return recs, errors.Wrap(rows.Err(), "query transactions")
}

// Results returns the scenario results matching q in recording order.
//
func (r *Reader) Results(q Query) ([]ResultRecord, error) {
	where, args := q.where()
	rows, err := r.db.Query(`SELECT run_id, scenario, passed, error, wall, sim
		FROM results`+where+` ORDER BY rowid`, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query results")
	}
	defer rows.Close()
	var recs []ResultRecord
	for rows.Next() {
		var (
			rec       ResultRecord
			wall, sim int64
		)
		if err := rows.Scan(&rec.RunID, &rec.Scenario, &rec.Passed, &rec.Error, &wall, &sim); err != nil {
			return nil, errors.Wrap(err, "scan result")
		}
		rec.Wall, rec.Sim = duration(wall), duration(sim)
		recs = append(recs, rec)
	}
	return recs, errors.Wrap(rows.Err(), "query results")
}

func parseKind(s string) (tqv.Kind, error) {
	for _, k := range []tqv.Kind{tqv.KindRead, tqv.KindWrite, tqv.KindReset} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, errors.Errorf("unknown transaction kind %q", s)
}
