package i

import (
	dmn "github.com/charlie572/Blind-Maze-Game/domain"
)

// Authenticator registers users and signs them in.
type Authenticator interface {
	Register(string, string) error
	SignIn(string, string) (*dmn.User, string, error)
}
