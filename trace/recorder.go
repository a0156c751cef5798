// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package trace records the bus transactions and scenario results of
// testbench runs into a SQLite database.
//
// A database can hold several runs. Each Recorder gets a unique run ID and
// tags every row it writes with it.
//
package trace

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/db47h/lfsrbench/testbench"
	"github.com/db47h/lfsrbench/tqv"
	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	// SQLite driver.
	_ "github.com/mattn/go-sqlite3"
)

// DefaultBatchSize is the number of buffered rows that triggers a flush.
const DefaultBatchSize = 4096

const schema = `
CREATE TABLE IF NOT EXISTS transactions
(
	run_id     VARCHAR(20)  NOT NULL,
	scenario   VARCHAR(100) NOT NULL,
	seq        INTEGER      NOT NULL,
	kind       VARCHAR(10)  NOT NULL,
	address    INTEGER      NOT NULL,
	data       INTEGER      NOT NULL,
	start_time INTEGER      NOT NULL,
	end_time   INTEGER      NOT NULL
);
CREATE INDEX IF NOT EXISTS transactions_run_scenario_index
	ON transactions (run_id, scenario);
CREATE TABLE IF NOT EXISTS results
(
	run_id   VARCHAR(20)  NOT NULL,
	scenario VARCHAR(100) NOT NULL,
	passed   BOOLEAN      NOT NULL,
	error    TEXT         NOT NULL DEFAULT '',
	wall     INTEGER      NOT NULL,
	sim      INTEGER      NOT NULL
);
`

type txRow struct {
	scenario string
	t        tqv.Transaction
}

// Recorder buffers transactions and results and writes them in batches.
// It is safe for concurrent use.
//
type Recorder struct {
	db        *sql.DB
	txStmt    *sql.Stmt
	resStmt   *sql.Stmt
	path      string
	runID     string
	batchSize int

	mu      sync.Mutex
	txs     []txRow
	results []testbench.Result
	closed  bool
}

// DefaultPath returns a new unique database file name in the current
// directory.
//
func DefaultPath() string {
	return "lfsrbench_trace_" + xid.New().String() + ".sqlite3"
}

// New creates the database file at path and returns a recorder writing to
// it. If path is empty, DefaultPath is used. It is an error for the file to
// already exist; use Append to add a run to an existing database.
//
// Buffered rows are flushed when the program exits through atexit.Exit.
//
func New(path string) (*Recorder, error) {
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		return nil, errors.Errorf("file %s already exists", path)
	}
	return open(path)
}

// Append opens or creates the database at path and returns a recorder
// adding a new run to it.
//
func Append(path string) (*Recorder, error) {
	if path == "" {
		return nil, errors.New("empty database path")
	}
	return open(path)
}

func open(path string) (*Recorder, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	r := &Recorder{
		db:        db,
		path:      path,
		runID:     xid.New().String(),
		batchSize: DefaultBatchSize,
	}
	if err = r.init(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "init %s", path)
	}
	atexit.Register(func() {
		if err := r.Flush(); err != nil {
			log.Printf("trace: %v", err)
		}
	})
	return r, nil
}

func (r *Recorder) init() (err error) {
	if _, err = r.db.Exec(schema); err != nil {
		return errors.Wrap(err, "create tables")
	}
	r.txStmt, err = r.db.Prepare(`INSERT INTO transactions
		(run_id, scenario, seq, kind, address, data, start_time, end_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "prepare transaction statement")
	}
	r.resStmt, err = r.db.Prepare(`INSERT INTO results
		(run_id, scenario, passed, error, wall, sim)
		VALUES (?, ?, ?, ?, ?, ?)`)
	return errors.Wrap(err, "prepare result statement")
}

// Path returns the database file name.
//
func (r *Recorder) Path() string { return r.path }

// RunID returns the ID tagging the rows written by r.
//
func (r *Recorder) RunID() string { return r.runID }

// SetBatchSize sets the number of buffered rows that triggers a flush.
//
func (r *Recorder) SetBatchSize(n int) {
	if n < 1 {
		n = 1
	}
	r.mu.Lock()
	r.batchSize = n
	r.mu.Unlock()
}

// Observer returns a transaction observer for the given scenario. It matches
// the observer argument of testbench.DeviceSetup.
//
func (r *Recorder) Observer(scenario string) tqv.Observer {
	return tqv.ObserverFunc(func(t tqv.Transaction) {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.closed {
			return
		}
		r.txs = append(r.txs, txRow{scenario, t})
		if len(r.txs)+len(r.results) >= r.batchSize {
			if err := r.flush(); err != nil {
				log.Printf("trace: %v", err)
			}
		}
	})
}

// RecordResult buffers a scenario result. It matches testbench.Runner's
// OnResult field.
//
func (r *Recorder) RecordResult(res testbench.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.results = append(r.results, res)
	if len(r.txs)+len(r.results) >= r.batchSize {
		if err := r.flush(); err != nil {
			log.Printf("trace: %v", err)
		}
	}
}

// Flush writes all buffered rows to the database in a single transaction.
//
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	return r.flush()
}

func (r *Recorder) flush() (err error) {
	if len(r.txs) == 0 && len(r.results) == 0 {
		return nil
	}
	tx, err := r.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
		err = errors.Wrap(tx.Commit(), "commit transaction")
	}()

	txStmt, resStmt := tx.Stmt(r.txStmt), tx.Stmt(r.resStmt)
	for _, row := range r.txs {
		t := &row.t
		_, err = txStmt.Exec(r.runID, row.scenario, t.Seq, t.Kind.String(),
			t.Address, t.Data, int64(t.Start), int64(t.End))
		if err != nil {
			return errors.Wrapf(err, "insert transaction %s/%d", row.scenario, t.Seq)
		}
	}
	for i := range r.results {
		res := &r.results[i]
		msg := ""
		if res.Err != nil {
			msg = res.Err.Error()
		}
		_, err = resStmt.Exec(r.runID, res.Scenario, res.Passed(), msg,
			int64(res.Wall), int64(res.Sim))
		if err != nil {
			return errors.Wrapf(err, "insert result %s", res.Scenario)
		}
	}
	r.txs, r.results = r.txs[:0], r.results[:0]
	return nil
}

// Close flushes buffered rows and closes the database.
//
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	err := r.flush()
	r.closed = true
	r.txStmt.Close()
	r.resStmt.Close()
	if cerr := r.db.Close(); err == nil {
		err = cerr
	}
	return err
}

func (r *Recorder) String() string {
	return fmt.Sprintf("%s (run %s)", r.path, r.runID)
}

// durations are stored as integer nanoseconds.
func duration(ns int64) time.Duration { return time.Duration(ns) }
