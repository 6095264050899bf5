// Package deoeph is the orbital-mechanics simulation core of an interactive
// asteroid-deflection simulator. It integrates asteroid trajectories under
// N-body gravity plus optional continuous thrust, detects collisions with
// celestial bodies, predicts future trajectories for display, and supports
// interactive deflection missions.
//
// The package is strictly 2D (ecliptic plane); it does not model
// relativistic corrections or multiplayer state.
package deoeph
