// Package record holds the data model shared by the failover engine: the
// monitored name with its checks and pool, pool candidates, the live record fetched
// from the DNS provider, and canonical name derivation.
package record
