// Package votinglottery implements the event-voting context: the candidate
// registry, the vote ledger, the configuration store and the lottery engine.
//
// Vote rules and draw sampling run inside one storage transaction through the
// domain services, so postgres and the in-memory store enforce them the same
// way. Live screens learn about committed changes through ports.Notifier,
// which is best-effort and never rolls a write back.
package votinglottery
