// Package failover drives the per-record failover cycle: evaluate the
// record's checks, fold the verdict into the consecutive-failure tracker,
// and once the threshold is reached, read the live DNS record, pick a pool
// replacement and rewrite the record.
//
// Records are processed sequentially. Each record runs inside its own
// failure boundary so one record's provider error or panic never stops the
// others.
package failover
