// Package core provides the domain models and interfaces for the launch packages.
//
// This package includes:
//   - JobSpec: one concrete assignment of grid values plus a phase
//   - Method: a learning-approach variant descriptor
//   - SubmissionRecord: the persisted outcome of one submission attempt
//   - Store and Backend: the collaborator interfaces the orchestrator drives
//
// Most users should import the root package github.com/ronuchit/predicators
// which re-exports these types for a clean API surface.
package core
