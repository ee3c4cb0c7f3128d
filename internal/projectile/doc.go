// Package projectile defines launch requests.
//
// A [CreateProjectileContext] is the caller's intent: which booster to use,
// what to name the repository and the project, and where to stage source.
// [New] resolves it against a booster into a [LauncherCreateProjectile],
// the immutable value the launch pipeline carries from step to step.
package projectile
