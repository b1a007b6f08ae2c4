// Package dbseed defines the public contracts of the dbseed fixture loader:
// fixture records, storage capabilities, progress observers, configuration
// types and the sentinel errors shared by every component.
//
// Implementations live in internal packages; pkg/seed composes them into the
// programmatic entry points.
package dbseed
