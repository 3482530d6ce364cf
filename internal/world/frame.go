package world

import (
	"time"

	"github.com/tomz197/spacegame/internal/object"
)

// Frame is one sampled snapshot of every producer.
//
// Stars, enemies and shots are shared with their producers; motion and
// collision mutate them in place while the frame is being processed.
type Frame struct {
	Seq       uint64
	Time      time.Time
	Score     int
	Stars     []object.Star
	Enemies   []*object.Enemy
	Hero      object.Hero
	HeroShots []*object.Shot
}
