// Package loader applies fixture records to a storage backend.
//
// Fixtures are inserted strictly one after another in input order, so a row
// may reference rows inserted earlier in the same sequence. The first failed
// insert stops the run. Rows already inserted stay in place; there is no
// transaction or rollback.
package loader
