// Package project holds the TaskDeck work model: projects and the
// tasks inside them, persisted in SQLite.
//
// Identifiers are prefixed UUIDs ("prj-", "tsk-") generated at create
// time. Status and priority values are closed string enums validated
// before any write; the repository trusts its callers on that and
// enforces only referential integrity (tasks cascade with their
// project).
package project
