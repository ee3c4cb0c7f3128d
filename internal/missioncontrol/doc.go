// Package missioncontrol launches boosters.
//
// A launch turns a validated projectile into a Boom: a source-control
// repository populated with the booster's code and a platform project
// building and deploying it. The steps run strictly in order:
//
//	START -> REPO_CREATED -> CODE_PUSHED -> PROJECT_CREATED -> RESOURCES_APPLIED -> SUCCEEDED
//
// Any failure moves the launch to FAILED. Resources created by earlier
// steps are then deleted in reverse creation order before the original
// error is returned, so a failed launch leaves no project and no
// repository behind. Compensation failures never replace the original
// error; they are attached to it as diagnostics.
package missioncontrol
