// Package relaymcp implements the server and client halves of a WebSocket
// RPC runtime that lets a client invoke server-registered "tools" by name
// with keyword arguments and receive correlated responses.
//
// The request pipeline for one message is: validate -> route -> execute
// (or immediate response) -> send. Each connection reads frames serially
// but dispatches each frame's processing onto its own goroutine, so one
// slow tool never blocks the next message on the same connection.
package relaymcp
