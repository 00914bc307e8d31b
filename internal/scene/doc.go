// Package scene is a small retained-mode scene graph: meshes, lines and
// groups placed in world space, plus the camera, light and fly controls
// used to look at them. Backends in internal/gui and internal/viz walk the
// graph once per frame.
package scene
