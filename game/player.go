package game

// Player is an axis-aligned rectangle with a position and a velocity,
// measured in cell-space coordinates. (X, Y) is the top-left corner.
type Player struct {
	X      float64
	Y      float64
	Width  float64
	Height float64

	velocityX float64
	velocityY float64
}

// NewPlayer creates a player rectangle at rest.
func NewPlayer(x, y, width, height float64) *Player {
	return &Player{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
	}
}

// SetVelocity replaces the player's velocity in cells per second.
func (p *Player) SetVelocity(vx, vy float64) {
	p.velocityX = vx
	p.velocityY = vy
}

// Velocity returns the current velocity.
func (p *Player) Velocity() (vx, vy float64) {
	return p.velocityX, p.velocityY
}

// Position returns the top-left corner of the rectangle.
func (p *Player) Position() (x, y float64) {
	return p.X, p.Y
}

// Center returns the center of the rectangle.
func (p *Player) Center() (x, y float64) {
	return p.X + p.Width/2, p.Y + p.Height/2
}

// Update advances the position by velocity * dt. dt is the time since the
// last call in seconds.
func (p *Player) Update(dt float64) {
	p.X += p.velocityX * dt
	p.Y += p.velocityY * dt
}
