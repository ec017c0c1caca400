package app

import (
	"context"
	"math"
	"time"

	"github.com/zeusync/zeusbt/internal/core/bt"
	"github.com/zeusync/zeusbt/internal/core/btconfig"
	"github.com/zeusync/zeusbt/internal/runner"
)

// Keys the guard demo keeps in each agent's values.
const (
	keyX         = "x"
	keyY         = "y"
	keyPostX     = "post_x"
	keyPostY     = "post_y"
	keyIntruderX = "intruder_x"
	keyIntruderY = "intruder_y"
	keyDistance  = "target_distance"
	keyVisible   = "target_visible"
	keyStamina   = "stamina"
	keyHits      = "hits"
	keyClock     = "clock"
)

const (
	intruderOrbit  = 10.0
	intruderSpeed  = 0.5 // radians per second
	sightRange     = 6.0
	reach          = 1.0
	maxStamina     = 100.0
	staminaPerUnit = 4.0
)

// RegisterGuard installs the guard demo actions.
func RegisterGuard(reg *btconfig.Registry) {
	reg.RegisterAction("chase", func(params map[string]any) (bt.ActionFunc, error) {
		speed := floatParam(params, "speed", 3)
		return func(ctx *bt.TickContext) bt.Status {
			if visible, _ := ctx.Values[keyVisible].(bool); !visible {
				return bt.StatusFailure
			}
			tx, ty := num(ctx.Values, keyIntruderX), num(ctx.Values, keyIntruderY)
			moved := moveTowards(ctx.Values, tx, ty, speed*ctx.Delta().Seconds())
			ctx.Values[keyStamina] = math.Max(0, num(ctx.Values, keyStamina)-moved*staminaPerUnit)
			if distance(ctx.Values, tx, ty) <= reach {
				return bt.StatusSuccess
			}
			return bt.StatusRunning
		}, nil
	})

	reg.RegisterAction("attack", func(map[string]any) (bt.ActionFunc, error) {
		return func(ctx *bt.TickContext) bt.Status {
			ctx.Values[keyHits] = int(num(ctx.Values, keyHits)) + 1
			return bt.StatusSuccess
		}, nil
	})

	reg.RegisterAction("return_to_post", func(params map[string]any) (bt.ActionFunc, error) {
		speed := floatParam(params, "speed", 2)
		return func(ctx *bt.TickContext) bt.Status {
			px, py := num(ctx.Values, keyPostX), num(ctx.Values, keyPostY)
			moveTowards(ctx.Values, px, py, speed*ctx.Delta().Seconds())
			if distance(ctx.Values, px, py) > 0.01 {
				return bt.StatusRunning
			}
			return bt.StatusSuccess
		}, nil
	})

	reg.RegisterAction("rest", func(params map[string]any) (bt.ActionFunc, error) {
		rate := floatParam(params, "rate", 20)
		return func(ctx *bt.TickContext) bt.Status {
			st := math.Min(maxStamina, num(ctx.Values, keyStamina)+rate*ctx.Delta().Seconds())
			ctx.Values[keyStamina] = st
			if st < maxStamina {
				return bt.StatusRunning
			}
			return bt.StatusSuccess
		}, nil
	})
}

// NewGuardAgent places a guard at its post with full stamina.
func NewGuardAgent(id string, tree *bt.BehaviorTree, postX, postY float64) *runner.Agent {
	a := runner.NewAgent(id, tree, intruderSensor())
	a.Values[keyX], a.Values[keyY] = postX, postY
	a.Values[keyPostX], a.Values[keyPostY] = postX, postY
	a.Values[keyStamina] = maxStamina
	a.Values[keyHits] = 0
	return a
}

// intruderSensor moves the intruder along a circle around the origin and tells the
// guard how far away it is.
func intruderSensor() runner.Sensor {
	return runner.SensorFunc{
		ID: "intruder",
		Fn: func(_ context.Context, values map[string]any, delta time.Duration) error {
			clock := num(values, keyClock) + delta.Seconds()
			values[keyClock] = clock
			ix := intruderOrbit * math.Cos(clock*intruderSpeed)
			iy := intruderOrbit * math.Sin(clock*intruderSpeed)
			values[keyIntruderX], values[keyIntruderY] = ix, iy
			d := distance(values, ix, iy)
			values[keyDistance] = d
			values[keyVisible] = d <= sightRange
			return nil
		},
	}
}

func moveTowards(values map[string]any, tx, ty, step float64) float64 {
	x, y := num(values, keyX), num(values, keyY)
	dx, dy := tx-x, ty-y
	d := math.Hypot(dx, dy)
	if d <= step || d == 0 {
		values[keyX], values[keyY] = tx, ty
		return d
	}
	values[keyX], values[keyY] = x+dx/d*step, y+dy/d*step
	return step
}

func distance(values map[string]any, tx, ty float64) float64 {
	return math.Hypot(tx-num(values, keyX), ty-num(values, keyY))
}

func num(values map[string]any, key string) float64 {
	switch v := values[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

func floatParam(params map[string]any, key string, def float64) float64 {
	switch v := params[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return def
	}
}
