package service

import "time"

// Clock supplies the current instant. Tests substitute a fixed one.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
