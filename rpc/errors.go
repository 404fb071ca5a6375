package rpc

import "fmt"

// TransportError means the endpoint could not be reached or answered with a
// non-success status. The refresh cycle that hit it is lost.
type TransportError struct {
	Method string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("RPC %s transport failure: %v", e.Method, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RpcError is a structured error returned by the remote node, message kept
// verbatim. Most callers treat it as fatal; the stake-account scan treats it
// as "no data this cycle".
type RpcError struct {
	Method  string
	Code    int
	Message string
}

func (e *RpcError) Error() string {
	return fmt.Sprintf("RPC %s returned error: %d %s", e.Method, e.Code, e.Message)
}
