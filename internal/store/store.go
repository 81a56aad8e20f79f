// Copyright 2025 CineFeed Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package store owns the connection to the structured store (SQLite via
// gorm). Connections follow an acquire-use-release discipline: the loader
// opens one for the duration of a load and closes it afterwards, and the
// report reader does the same for its process lifetime. There is no
// pooling and no support for concurrent writers; the replacing load is not
// safe under a second writer, so at most one pipeline run should target a
// given database file at a time.
package store

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// StorageError wraps any failure writing to or opening the store. Loads
// treat it as fatal: the run aborts rather than committing a partial table.
type StorageError struct {
	Op  string // The operation that failed, e.g. "open", "replace-tables".
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As checks.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Open acquires a connection to the SQLite database at path, creating the
// file if it does not exist. gorm's own SQL logging is silenced; the
// pipeline logs at the command level instead.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}
	return db, nil
}

// Close releases the underlying connection. Deferred by whoever called
// Open.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return &StorageError{Op: "close", Err: err}
	}
	if err := sqlDB.Close(); err != nil {
		return &StorageError{Op: "close", Err: err}
	}
	return nil
}
