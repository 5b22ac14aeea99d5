// Package healthcheck evaluates an ordered list of health checks against a
// DNS name and reduces them to a single healthy/unhealthy verdict.
//
// Three check variants exist: Web (HTTP status and body assertions), Ping
// (ICMP packet loss) and TCPConnect (TCP handshake). The set is closed; the
// Check interface cannot be implemented outside this package.
//
// A failing check reports a *Failure whose Kind separates transport errors
// from assertion failures.
package healthcheck
