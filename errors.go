package xtee

import "errors"

var (
	// ErrNoAdapter is returned by Builder.Build when no backend was configured.
	ErrNoAdapter = errors.New("xtee: no adapter configured")

	// ErrNoMember is returned by Console.Call for an unknown name.
	ErrNoMember = errors.New("xtee: no such member")

	// ErrNotCallable is returned when a member exists but holds a non-callable value.
	ErrNotCallable = errors.New("xtee: member is not callable")
)
