package game

import "math"

// DefaultArena is the stock layout without actors: a 40 m square with
// crates and pillars to hide behind, a couple of low walls and spawn points
// in opposite corners.
func DefaultArena() []SimOption {
	return []SimOption{
		WithArena(40, 40),
		WithObstacle("crate-a", 10, 10, 2, 2, 2),
		WithObstacle("crate-b", 30, 10, 3, 2, 2),
		WithObstacle("crate-c", 20, 20, 2, 4, 2.5),
		WithObstacle("crate-d", 10, 30, 2, 3, 2),
		WithObstacle("crate-e", 30, 30, 2, 2, 2),
		WithObstacle("pillar-n", 20, 32, 1, 1, 3),
		WithObstacle("pillar-s", 20, 8, 1, 1, 3),
		WithWall("wall-w", 6, 20, 1, 8, 1),
		WithWall("wall-e", 34, 20, 1, 8, 1),
		WithSpawnPoints(
			[]Vec3{V3(26, 26), V3(14, 26), V3(26, 14)},
			[]Vec3{V3(3, 3), V3(37, 3), V3(3, 37)},
		),
	}
}

// DefaultScene is DefaultArena with one hider and a player seeker.
func DefaultScene() []SimOption {
	return append(DefaultArena(),
		WithHider(26, 26, math.Pi),
		WithPlayer(3, 3),
	)
}

// BotScene is DefaultArena with one hider and a seeker bot, for headless
// runs.
func BotScene() []SimOption {
	return append(DefaultArena(),
		WithHider(26, 26, math.Pi),
		WithSeekerBot(3, 3),
	)
}
