package config

import (
	"io"
	"log"
	"reflect"
	"runtime"
)

// Me stores the program name we consider ourselves to be running as.
//
var Me string

// ErrOut is where logs and errors are sent to (generally stderr).
//
var ErrOut io.Writer

// EnableFnTrace shows scanner/grammar fn call/stack
//
var EnableFnTrace = false

// ShowTokens dumps the raw token stream while parsing
//
var ShowTokens = false

// TraceFn logs scanner/grammar fn transitions
//
func TraceFn(msg string, i interface{}) {
	if EnableFnTrace {
		fnName := runtime.FuncForPC(reflect.ValueOf(i).Pointer()).Name()
		log.Println(msg, ":", fnName)
	}
}
