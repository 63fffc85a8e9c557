package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xkilldash9x/windmouse-cli/internal/windmouse"
)

// parsePoint parses an "x,y" flag value into a Position.
func parsePoint(s string) (windmouse.Position, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return windmouse.Position{}, fmt.Errorf("invalid point %q: want \"x,y\"", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return windmouse.Position{}, fmt.Errorf("invalid x in point %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return windmouse.Position{}, fmt.Errorf("invalid y in point %q: %w", s, err)
	}
	return windmouse.Position{X: windmouse.Coordinate(x), Y: windmouse.Coordinate(y)}, nil
}

// physicsFromFlags copies the loaded physics config and applies any flag
// overrides the user set on this invocation.
func physicsFromFlags(base windmouse.PhysicsConfig, gravity, wind, maxStep, damped float64, changed func(string) bool) windmouse.PhysicsConfig {
	cfg := base
	if changed("gravity") {
		cfg.GravityMagnitude = gravity
	}
	if changed("wind") {
		cfg.WindMagnitude = wind
	}
	if changed("max-step") {
		cfg.MaxStep = maxStep
	}
	if changed("damped-distance") {
		cfg.DampedDistance = damped
	}
	return cfg
}
