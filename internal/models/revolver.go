package models

// Chambers is the number of chambers in the cylinder
const Chambers = 6

// RevolverCycle represents one full arc of the revolver: a single bullet
// at a fixed position, fired through up to six pulls
type RevolverCycle struct {
	// BulletPosition is the 1-based chamber holding the bullet
	BulletPosition int `json:"bulletPosition"`

	// ShotsFired is how many chambers have been fired this cycle
	ShotsFired int `json:"shotsFired"`
}

// ShotRecord is one entry in the session's append-only shot history
type ShotRecord struct {
	// Turn is the side that pulled the trigger
	Turn Side `json:"turn"`

	// ShotNumber is the 1-based pull index within the cycle
	ShotNumber int `json:"shotNumber"`

	// Hit indicates whether the chamber was loaded
	Hit bool `json:"hit"`
}
