// Package idgen generates identifiers for boots, snapshots, address spaces
// and events. Callers treat identifiers as opaque strings.
package idgen
