package user

// Principal is the authenticated caller identity resolved from a bearer
// token. UserID doubles as the player id across the engine.
type Principal struct {
	UserID string
	Email  string
}
