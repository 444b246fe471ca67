package revolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lastchamber/internal/dice"
	"lastchamber/internal/models"
)

// fixedRoller always places the bullet in the given chamber
type fixedRoller struct {
	roll int
}

func (r *fixedRoller) Roll(sides int) int                 { return r.roll }
func (r *fixedRoller) Shuffle(n int, swap func(i, j int)) {}
func (r *fixedRoller) CoinFlip() bool                     { return true }

func TestNewCyclePlacesBulletInRange(t *testing.T) {
	roller := dice.New(&dice.Config{Seed: 42})

	for i := 0; i < 100; i++ {
		cycle := NewCycle(roller)
		assert.GreaterOrEqual(t, cycle.BulletPosition, 1)
		assert.LessOrEqual(t, cycle.BulletPosition, models.Chambers)
		assert.Equal(t, 0, cycle.ShotsFired)
	}
}

func TestExactlyOneChamberFires(t *testing.T) {
	for bullet := 1; bullet <= models.Chambers; bullet++ {
		cycle := NewCycle(&fixedRoller{roll: bullet})

		hits := 0
		for pull := 1; pull <= models.Chambers; pull++ {
			if ResolveShot(cycle) {
				hits++
				assert.Equal(t, bullet, cycle.ShotsFired)
			}
		}
		assert.Equal(t, 1, hits, "bullet at %d", bullet)
	}
}

func TestWillFirePredictsResolveShot(t *testing.T) {
	for bullet := 1; bullet <= models.Chambers; bullet++ {
		cycle := NewCycle(&fixedRoller{roll: bullet})

		for pull := 1; pull <= models.Chambers; pull++ {
			predicted := WillFire(cycle)
			fired := ResolveShot(cycle)
			require.Equal(t, predicted, fired, "bullet %d pull %d", bullet, pull)
		}
	}
}

func TestDeathOddsClimbAsChambersEmpty(t *testing.T) {
	cycle := NewCycle(&fixedRoller{roll: models.Chambers})

	previous := 0.0
	for pull := 1; pull < models.Chambers; pull++ {
		odds := DeathOdds(cycle)
		assert.Greater(t, odds, previous)
		previous = odds
		ResolveShot(cycle)
	}

	// Last chamber is a certainty.
	assert.Equal(t, 100.0, DeathOdds(cycle))
}

func TestDeathOddsStartAtOneInSix(t *testing.T) {
	cycle := NewCycle(&fixedRoller{roll: 3})
	assert.InDelta(t, 100.0/6.0, DeathOdds(cycle), 0.0001)
}
