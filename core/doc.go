// Package core defines the shared data model of chatmesh: immutable
// conversation messages, the append-only transcript, the queue envelope wire
// contract used between a running conversation and its external observer, and
// the bounded call pool that keeps slow model/tool calls from starving the
// process.
//
// Everything in this package is deliberately free of orchestration logic; the
// turn-taking state machine lives in package chat and the HTTP bridging in
// package driver.
package core
