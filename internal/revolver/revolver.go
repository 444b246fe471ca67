// Package revolver models the six-chamber cylinder: one bullet at a fixed
// random position per cycle, fired through successive trigger pulls.
package revolver

import (
	"lastchamber/internal/dice"
	"lastchamber/internal/models"
)

// NewCycle starts a fresh cycle with the bullet placed uniformly in one of
// the six chambers
func NewCycle(roller dice.Roller) *models.RevolverCycle {
	return &models.RevolverCycle{
		BulletPosition: roller.Roll(models.Chambers),
		ShotsFired:     0,
	}
}

// WillFire reports whether the next pull hits the loaded chamber. The
// outcome of a pull is fixed before any trigger sequence starts; the
// staged reveal is cosmetic.
func WillFire(cycle *models.RevolverCycle) bool {
	return cycle.ShotsFired+1 == cycle.BulletPosition
}

// ResolveShot fires the next chamber, mutating the cycle, and reports
// whether the bullet discharged
func ResolveShot(cycle *models.RevolverCycle) bool {
	cycle.ShotsFired++
	return cycle.ShotsFired == cycle.BulletPosition
}

// DeathOdds returns the chance the next pull fires, as a percentage.
// A cycle with all chambers spent cannot occur by construction, but the
// guard keeps the math total rather than dividing by zero.
func DeathOdds(cycle *models.RevolverCycle) float64 {
	remaining := models.Chambers - cycle.ShotsFired
	if remaining <= 0 {
		return 100
	}
	return 100 / float64(remaining)
}
