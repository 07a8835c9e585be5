package domain

import "errors"

// ErrNotComposite is returned when a tracker is created for a value that is not an object or array.
var ErrNotComposite = errors.New("value is not an object or array")

// ErrInvalidListener is returned when a listener is nil or cannot be used as a registry key.
var ErrInvalidListener = errors.New("invalid listener")

// ErrInvalidKey is returned when a key cannot address a slot of the target node.
var ErrInvalidKey = errors.New("invalid key")

// ErrNotArray is returned when an array method is called on an object node.
var ErrNotArray = errors.New("node is not an array")

// ErrUnknownMethod is returned by Call for names outside the array-mutating method set.
var ErrUnknownMethod = errors.New("unknown array method")

// ErrInvalidArgument is returned when an array method receives arguments of the wrong shape.
var ErrInvalidArgument = errors.New("invalid argument")

// KeepListener is returned by a one-shot listener that wants to stay registered.
// It is not reported as a failure.
var KeepListener = errors.New("keep listener")
