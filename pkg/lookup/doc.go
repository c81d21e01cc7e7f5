// Package lookup implements the company, job and employee tools.
//
// Each operation is a method over injected clients with a typed argument
// struct; Tools turns them into the registry entries served by every transport.
package lookup
