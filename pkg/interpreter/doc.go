// Package interpreter evaluates parsed Bisaya++ programs.
//
// An Interpreter walks the statement tree on the caller's goroutine. Printed
// text goes to an OutputSink, DAWAT statements read lines from an
// InputSource, and a StopSignal lets another goroutine end the run at the
// next loop iteration. A stop ends the whole run, not only the loop that
// observed it: statements after that loop do not execute and Run returns
// nil with Stopped reporting true. Session runs a program on its own
// goroutine and exposes the same collaborators as channels.
package interpreter
