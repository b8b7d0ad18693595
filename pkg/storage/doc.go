// Package storage provides storage implementations for submission records.
//
// This package includes:
//   - GormStore: a GORM-based implementation supporting various databases
//
// The Store interface is defined in pkg/core and must be implemented by
// any custom record store.
//
// Most users should import the root package github.com/ronuchit/predicators
// which provides NewGormStore() to create store instances.
package storage
